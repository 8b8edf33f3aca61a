package pagination

import "gorm.io/gorm"

const (
	DefaultLimit = 10
	MaxLimit     = 1000
)

// OffsetPaginator 基于 Offset 的分页器
type OffsetPaginator struct {
	defaultLimit int
	maxLimit     int
}

func NewOffsetPaginator() *OffsetPaginator {
	return &OffsetPaginator{defaultLimit: DefaultLimit, maxLimit: MaxLimit}
}

// Normalize 归一化 offset/limit：offset 小于 0 取 0，limit 非正时取默认值，超过上限时截断
func (p OffsetPaginator) Normalize(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = p.defaultLimit
	}
	if p.maxLimit > 0 && limit > p.maxLimit {
		limit = p.maxLimit
	}
	return offset, limit
}

// BuildDB 返回应用 OFFSET/LIMIT 的 scope，offset 为 0 时仅设置 LIMIT
func (p OffsetPaginator) BuildDB(offset, limit int) func(*gorm.DB) *gorm.DB {
	offset, limit = p.Normalize(offset, limit)
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			return db.Offset(offset).Limit(limit)
		}
		return db.Limit(limit)
	}
}

// PagePaginator 基于页码的分页器，页码从 1 开始
type PagePaginator struct {
	offset *OffsetPaginator
}

func NewPagePaginator() *PagePaginator {
	return &PagePaginator{offset: NewOffsetPaginator()}
}

// ToOffset 页码转换为 offset/limit
func (p PagePaginator) ToOffset(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	_, size = p.offset.Normalize(0, size)
	return (page - 1) * size, size
}

// BuildDB 返回应用分页的 scope
func (p PagePaginator) BuildDB(page, size int) func(*gorm.DB) *gorm.DB {
	return p.offset.BuildDB(p.ToOffset(page, size))
}
