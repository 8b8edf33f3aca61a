package field

import (
	"strings"

	"gorm.io/gorm"
)

// Selector 字段选择器，用于构建 GORM 查询中的字段列表。
type Selector struct{}

// NewFieldSelector 返回一个新的 Selector。
func NewFieldSelector() *Selector { return &Selector{} }

// BuildSelect 将 selections 应用到传入的 *gorm.DB，并返回修改后的 *gorm.DB。
func (fs Selector) BuildSelect(db *gorm.DB, selections []Selection) *gorm.DB {
	if db == nil || len(selections) == 0 {
		return db
	}
	sql, vars := render(selections)
	if sql == "" {
		return db
	}
	if len(vars) > 0 {
		return db.Select(sql, vars...)
	}
	return db.Select(sql)
}

// BuildSelector 返回一个可直接应用到 *gorm.DB 的闭包；当 selections 为空时返回 (nil, nil)。
func (fs Selector) BuildSelector(selections []Selection) (func(*gorm.DB) *gorm.DB, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	captured := make([]Selection, len(selections))
	copy(captured, selections)
	return func(db *gorm.DB) *gorm.DB {
		return fs.BuildSelect(db, captured)
	}, nil
}

// BuildColumnSelect 按列名选择（用于 FieldMask 的部分读取），列名会先做 snake_case 归一化
func (fs Selector) BuildColumnSelect(db *gorm.DB, columns []string) *gorm.DB {
	if db == nil || len(columns) == 0 {
		return db
	}
	columns = NormalizePaths(columns)
	valid := make([]string, 0, len(columns))
	for _, c := range columns {
		if identifierRegexp.MatchString(c) {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return db
	}
	return db.Select(strings.Join(valid, ", "))
}
