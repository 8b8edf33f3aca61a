package predicate

import "gorm.io/gorm"

// AllOf 丢弃缺失的片段后做合取；全部缺失时返回 True。
func AllOf(fragments ...Fragment) Predicate {
	acc := True()
	for _, f := range fragments {
		if p, ok := f.Get(); ok {
			acc = acc.And(p)
		}
	}
	return acc
}

// Where 声明式组合：直接把可选片段列表转成 scope
func Where(fragments ...Fragment) func(*gorm.DB) *gorm.DB {
	return AllOf(fragments...).Scope()
}

// Builder 可变累加的条件构造器，从 True 开始逐个并入存在的片段。
// 非并发安全，每次查询各自创建。
type Builder struct {
	acc Predicate
}

func NewBuilder() *Builder {
	return &Builder{acc: True()}
}

// And 并入一个片段，缺失时忽略
func (b *Builder) And(f Fragment) *Builder {
	if p, ok := f.Get(); ok {
		b.acc = b.acc.And(p)
	}
	return b
}

// AndPredicate 并入一个确定存在的条件
func (b *Builder) AndPredicate(p Predicate) *Builder {
	b.acc = b.acc.And(p)
	return b
}

// HasValue 是否已并入任何条件
func (b *Builder) HasValue() bool {
	return !b.acc.IsTrue()
}

// Predicate 返回当前累积的条件
func (b *Builder) Predicate() Predicate {
	return b.acc
}
