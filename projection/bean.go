package projection

import (
	"fmt"

	"github.com/tx7do/go-crud-member/field"
)

// Property 一列与把它写入 T 的 setter
type Property[T any] struct {
	Selection field.Selection
	Set       func(dst *T, v Value) error
}

// Prop 声明属性
func Prop[T any](sel field.Selection, set func(dst *T, v Value) error) Property[T] {
	return Property[T]{Selection: sel, Set: set}
}

// BeanProjection 先构造零值再逐个属性赋值
type BeanProjection[T any] struct {
	props []Property[T]
}

func NewBean[T any](props ...Property[T]) *BeanProjection[T] {
	dup := make([]Property[T], len(props))
	copy(dup, props)
	return &BeanProjection[T]{props: dup}
}

func (p *BeanProjection[T]) Selections() []field.Selection {
	out := make([]field.Selection, 0, len(p.props))
	for _, prop := range p.props {
		out = append(out, prop.Selection)
	}
	return out
}

func (p *BeanProjection[T]) Map(row Row) (T, error) {
	var out T
	for _, prop := range p.props {
		if prop.Set == nil {
			continue
		}
		if err := prop.Set(&out, row.Value(prop.Selection.Alias)); err != nil {
			return out, fmt.Errorf("set %s: %w", prop.Selection.Alias, err)
		}
	}
	return out, nil
}
