package predicate

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tx7do/go-crud-member/field"
)

// Predicate 过滤条件。零值（True）匹配全部记录，渲染时不产生 WHERE。
type Predicate struct {
	expr   clause.Expression
	fields []field.Field
}

// Fragment 单个可选条件的构建结果
type Fragment = Option[Predicate]

// True 恒真条件
func True() Predicate {
	return Predicate{}
}

// Of 用 gorm 表达式构造条件，refs 为表达式引用的字段（用于连接规划）
func Of(expr clause.Expression, refs ...field.Field) Predicate {
	if expr == nil {
		return True()
	}
	return Predicate{expr: expr, fields: refs}
}

// IsTrue 是否为恒真条件
func (p Predicate) IsTrue() bool {
	return p.expr == nil
}

// Expression 返回底层表达式，恒真时为 nil
func (p Predicate) Expression() clause.Expression {
	return p.expr
}

// Fields 返回条件引用的字段
func (p Predicate) Fields() []field.Field {
	dup := make([]field.Field, len(p.fields))
	copy(dup, p.fields)
	return dup
}

// And 合取，True 为单位元
func (p Predicate) And(other Predicate) Predicate {
	if p.IsTrue() {
		return other
	}
	if other.IsTrue() {
		return p
	}

	fields := make([]field.Field, 0, len(p.fields)+len(other.fields))
	fields = append(fields, p.fields...)
	fields = append(fields, other.fields...)

	return Predicate{
		expr:   clause.And(p.expr, other.expr),
		fields: fields,
	}
}

// Scope 返回可直接用于 db.Scopes 的闭包
func (p Predicate) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsTrue() {
			return db
		}
		return db.Where(p.expr)
	}
}
