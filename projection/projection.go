package projection

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tx7do/go-crud-member/field"
)

// ErrUnknownStrategy 无法识别的映射策略
var ErrUnknownStrategy = errors.New("unknown projection strategy")

// Projection 声明 SELECT 列表并把每一行映射为 T
type Projection[T any] interface {
	Selections() []field.Selection
	Map(row Row) (T, error)
}

// Strategy 行到结果对象的映射方式
type Strategy int

const (
	// StrategyFields 按别名直接拷贝到同名字段
	StrategyFields Strategy = iota
	// StrategyBean 先构造零值再逐个属性赋值
	StrategyBean
	// StrategyConstructor 按 SELECT 顺序把全部值交给构造函数
	StrategyConstructor
)

func (s Strategy) String() string {
	switch s {
	case StrategyFields:
		return "fields"
	case StrategyBean:
		return "bean"
	case StrategyConstructor:
		return "constructor"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy 解析策略名称，空串返回 StrategyFields
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fields", "field":
		return StrategyFields, nil
	case "bean", "setter":
		return StrategyBean, nil
	case "constructor":
		return StrategyConstructor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// SubQuery 把子查询绑定到别名，渲染为 "(SELECT ...) AS alias"
func SubQuery(sub *gorm.DB, alias string) field.Selection {
	return field.Expr("(?)", alias, []any{sub})
}

// Fields 投影引用的全部字段，用于连接规划
func Fields[T any](p Projection[T]) []field.Field {
	return field.Refs(p.Selections())
}

// MapRows 逐行映射，遇到第一个错误即返回
func MapRows[T any](p Projection[T], rows []map[string]any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		v, err := p.Map(Row(r))
		if err != nil {
			return nil, fmt.Errorf("map row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func copySelections(selections []field.Selection) []field.Selection {
	dup := make([]field.Selection, len(selections))
	copy(dup, selections)
	return dup
}
