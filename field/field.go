package field

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tx7do/go-utils/stringcase"
	"gorm.io/gorm/clause"
)

// ErrInvalidField 字段名无法解析为已声明的列
var ErrInvalidField = errors.New("invalid field")

var identifierRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Field 描述一个可查询的列：所属表、列名以及对外暴露的逻辑名称。
type Field struct {
	Table  string
	Column string
	Name   string
}

// New 创建 Field，table/column 必须是合法的标识符，否则 panic（声明期错误）。
func New(table, column, name string) Field {
	if !identifierRegexp.MatchString(table) || !identifierRegexp.MatchString(column) {
		panic("invalid field identifier: " + table + "." + column)
	}
	if name == "" {
		name = column
	}
	return Field{Table: table, Column: column, Name: name}
}

// IsZero 是否为空字段
func (f Field) IsZero() bool {
	return f.Table == "" && f.Column == ""
}

// Qualified 返回 "table.column"
func (f Field) Qualified() string {
	return f.Table + "." + f.Column
}

// ClauseColumn 转为 gorm 的列表达式
func (f Field) ClauseColumn() clause.Column {
	return clause.Column{Table: f.Table, Name: f.Column}
}

// Alias 返回默认别名（逻辑名的 snake_case 形式）
func (f Field) Alias() string {
	return stringcase.ToSnakeCase(f.Name)
}

func (f Field) String() string {
	return f.Qualified()
}

// Tables 返回 fields 中出现过的表名（去重，保持首次出现顺序）
func Tables(fields ...Field) []string {
	seen := make(map[string]struct{}, len(fields))
	tables := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.IsZero() {
			continue
		}
		if _, ok := seen[f.Table]; ok {
			continue
		}
		seen[f.Table] = struct{}{}
		tables = append(tables, f.Table)
	}
	return tables
}

// Registry 按逻辑名查找字段，查找时忽略 camelCase / snake_case 差异。
type Registry struct {
	fields []Field
	byName map[string]Field
}

func NewRegistry(fields ...Field) *Registry {
	r := &Registry{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		r.fields = append(r.fields, f)
		r.byName[normalizeName(f.Name)] = f
	}
	return r
}

// Lookup 根据名称查找字段
func (r *Registry) Lookup(name string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	f, ok := r.byName[normalizeName(name)]
	return f, ok
}

// Fields 返回注册的全部字段
func (r *Registry) Fields() []Field {
	if r == nil {
		return nil
	}
	dup := make([]Field, len(r.fields))
	copy(dup, r.fields)
	return dup
}

func normalizeName(name string) string {
	return strings.ToLower(stringcase.ToSnakeCase(strings.TrimSpace(name)))
}
