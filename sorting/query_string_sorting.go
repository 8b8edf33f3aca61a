package sorting

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tx7do/go-crud-member/field"
)

// QueryStringSorting 把查询字符串解析为排序键，字段名通过 Registry 解析
type QueryStringSorting struct {
	registry   *field.Registry
	structured *StructuredSorting
}

// NewQueryStringSorting 创建实例
func NewQueryStringSorting(registry *field.Registry) *QueryStringSorting {
	return &QueryStringSorting{
		registry:   registry,
		structured: NewStructuredSorting(),
	}
}

type parsedOrder struct {
	name  string
	desc  bool
	nulls NullHandling
}

// parseOrder 将单个 order 表达式解析为字段名、方向以及空值位置
// 支持格式:
//   - "-field"                 -> field DESC
//   - "field"                  -> field ASC
//   - "field:desc"             -> field DESC
//   - "field.desc"             -> field DESC
//   - "field:asc:nulls_first"  -> field ASC，空值在前
func parseOrder(expr string) (parsedOrder, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return parsedOrder{}, false
	}

	var po parsedOrder

	// 前缀 '-' 表示 DESC
	if strings.HasPrefix(expr, "-") {
		po.desc = true
		expr = strings.TrimPrefix(expr, "-")
	}

	if parts := strings.Split(expr, ":"); len(parts) > 1 {
		expr = parts[0]
		for _, p := range parts[1:] {
			switch strings.ToLower(strings.TrimSpace(p)) {
			case "desc":
				po.desc = true
			case "asc":
			case "nulls_first":
				po.nulls = NullsFirst
			case "nulls_last":
				po.nulls = NullsLast
			default:
				return parsedOrder{}, false
			}
		}
	} else if parts = strings.SplitN(expr, ".", 2); len(parts) == 2 {
		expr = parts[0]
		if strings.EqualFold(parts[1], "desc") {
			po.desc = true
		}
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return parsedOrder{}, false
	}

	// 简单校验字段名，避免注入
	if !fieldNameRegexp.MatchString(expr) {
		return parsedOrder{}, false
	}

	po.name = expr
	return po, true
}

// Parse 解析 orderBys，空项会被跳过；无法识别的字段返回 field.ErrInvalidField
func (qss QueryStringSorting) Parse(orderBys []string) ([]Order, error) {
	var orders []Order
	for _, ob := range orderBys {
		if strings.TrimSpace(ob) == "" || strings.TrimSpace(ob) == "-" {
			continue
		}
		po, ok := parseOrder(ob)
		if !ok {
			return nil, fmt.Errorf("%w: bad order expression %q", field.ErrInvalidField, ob)
		}
		o, err := qss.resolve(po.name, po.desc)
		if err != nil {
			return nil, err
		}
		o.Nulls = po.nulls
		orders = append(orders, o)
	}
	return orders, nil
}

func (qss QueryStringSorting) resolve(name string, desc bool) (Order, error) {
	f, ok := qss.registry.Lookup(name)
	if !ok {
		return Order{}, fmt.Errorf("%w: unknown order field %q", field.ErrInvalidField, name)
	}
	if desc {
		return DescOf(f), nil
	}
	return AscOf(f), nil
}

// BuildScope 根据 orderBys 构建 GORM scope（可与 db.Scopes 一起使用）
// orderBys 示例: []string{"-age", "username:asc:nulls_last"}
func (qss QueryStringSorting) BuildScope(orderBys []string) (func(*gorm.DB) *gorm.DB, error) {
	orders, err := qss.Parse(orderBys)
	if err != nil {
		return nil, err
	}
	return qss.structured.BuildScope(orders), nil
}

// BuildScopeWithDefault 当 orderBys 为空时使用默认排序
func (qss QueryStringSorting) BuildScopeWithDefault(orderBys []string, defaults ...Order) (func(*gorm.DB) *gorm.DB, error) {
	orders, err := qss.Parse(orderBys)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		orders = defaults
	}
	return qss.structured.BuildScope(orders), nil
}
