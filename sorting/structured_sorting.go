package sorting

import (
	"fmt"

	"gorm.io/gorm"
)

// StructuredSorting 把结构化的排序键转换为 GORM 的 order scope
type StructuredSorting struct{}

func NewStructuredSorting() *StructuredSorting {
	return &StructuredSorting{}
}

// Expressions 渲染 ORDER BY 表达式列表，每个键先按空值位置排，再按列本身排
func (ss StructuredSorting) Expressions(orders []Order) []string {
	out := make([]string, 0, len(orders)*2)
	for _, o := range orders {
		if o.Field.IsZero() {
			continue
		}
		column := o.Field.Qualified()
		out = append(out, nullRank(column, o.NullsAtEnd()))
		out = append(out, fmt.Sprintf("%s %s", column, o.Direction))
	}
	return out
}

// BuildScope 根据 orders 构建 GORM scope
func (ss StructuredSorting) BuildScope(orders []Order) func(*gorm.DB) *gorm.DB {
	exprs := ss.Expressions(orders)
	return func(db *gorm.DB) *gorm.DB {
		for _, e := range exprs {
			db = db.Order(e)
		}
		return db
	}
}
