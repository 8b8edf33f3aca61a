package projection

import (
	"github.com/tx7do/go-crud-member/field"
)

// ConstructorProjection 按 SELECT 顺序把全部值交给构造函数
type ConstructorProjection[T any] struct {
	selections []field.Selection
	ctor       func(values ...Value) (T, error)
}

func NewConstructor[T any](ctor func(values ...Value) (T, error), selections ...field.Selection) *ConstructorProjection[T] {
	return &ConstructorProjection[T]{
		selections: copySelections(selections),
		ctor:       ctor,
	}
}

func (p *ConstructorProjection[T]) Selections() []field.Selection {
	return copySelections(p.selections)
}

func (p *ConstructorProjection[T]) Map(row Row) (T, error) {
	values := make([]Value, 0, len(p.selections))
	for _, s := range p.selections {
		values = append(values, row.Value(s.Alias))
	}
	return p.ctor(values...)
}
