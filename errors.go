package member

import (
	"errors"

	"github.com/tx7do/go-crud-member/field"
	"github.com/tx7do/go-crud-member/join"
)

var (
	// ErrNilDB 未提供数据库连接
	ErrNilDB = errors.New("db is nil")

	// ErrMissingJoin 过滤、投影或排序引用了未连接的表
	ErrMissingJoin = join.ErrMissingJoin

	// ErrInvalidField 无法识别的字段
	ErrInvalidField = field.ErrInvalidField
)
