package field

import (
	"fmt"
	"strings"
)

// Selection SELECT 列表中的一项：表达式、别名以及它引用的字段。
// Refs 用于连接规划，表达式中出现的每个表都必须被连接。
type Selection struct {
	Expr  string
	Vars  []any
	Alias string
	Refs  []Field
}

// Col 直接选择列，别名为字段的默认别名
func Col(f Field) Selection {
	return As(f, f.Alias())
}

// As 选择列并重命名
func As(f Field, alias string) Selection {
	return Selection{
		Expr:  f.Qualified(),
		Alias: alias,
		Refs:  []Field{f},
	}
}

// Expr 任意 SQL 表达式（聚合、子查询等），vars 中可以包含 *gorm.DB 子查询
func Expr(sql, alias string, vars []any, refs ...Field) Selection {
	return Selection{
		Expr:  sql,
		Vars:  vars,
		Alias: alias,
		Refs:  refs,
	}
}

// SQL 渲染为 "expr AS alias"
func (s Selection) SQL() string {
	if s.Alias == "" {
		return s.Expr
	}
	return fmt.Sprintf("%s AS %s", s.Expr, s.Alias)
}

// Aliases 返回选择列表的别名，顺序与选择顺序一致
func Aliases(selections []Selection) []string {
	aliases := make([]string, 0, len(selections))
	for _, s := range selections {
		aliases = append(aliases, s.Alias)
	}
	return aliases
}

// Refs 汇总选择列表引用的全部字段
func Refs(selections []Selection) []Field {
	var refs []Field
	for _, s := range selections {
		refs = append(refs, s.Refs...)
	}
	return refs
}

func render(selections []Selection) (string, []any) {
	parts := make([]string, 0, len(selections))
	var vars []any
	for _, s := range selections {
		if strings.TrimSpace(s.Expr) == "" {
			continue
		}
		parts = append(parts, s.SQL())
		vars = append(vars, s.Vars...)
	}
	return strings.Join(parts, ", "), vars
}
