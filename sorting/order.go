package sorting

import (
	"github.com/tx7do/go-crud-member/field"
)

// Direction 排序方向
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	return toDirection(d == Desc)
}

// NullHandling 空值位置
type NullHandling int

const (
	// NullsDefault 升序时空值在后，降序时空值在前
	NullsDefault NullHandling = iota
	NullsFirst
	NullsLast
)

// Order 单个排序键
type Order struct {
	Field     field.Field
	Direction Direction
	Nulls     NullHandling
}

// AscOf 升序
func AscOf(f field.Field) Order {
	return Order{Field: f, Direction: Asc}
}

// DescOf 降序
func DescOf(f field.Field) Order {
	return Order{Field: f, Direction: Desc}
}

// WithNullsFirst 空值排在最前
func (o Order) WithNullsFirst() Order {
	o.Nulls = NullsFirst
	return o
}

// WithNullsLast 空值排在最后
func (o Order) WithNullsLast() Order {
	o.Nulls = NullsLast
	return o
}

// NullsAtEnd 计算实际的空值位置
func (o Order) NullsAtEnd() bool {
	switch o.Nulls {
	case NullsFirst:
		return false
	case NullsLast:
		return true
	default:
		return o.Direction == Asc
	}
}

// Fields 排序键引用的字段
func Fields(orders []Order) []field.Field {
	fields := make([]field.Field, 0, len(orders))
	for _, o := range orders {
		fields = append(fields, o.Field)
	}
	return fields
}
