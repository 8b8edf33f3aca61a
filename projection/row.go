package projection

import (
	"github.com/spf13/cast"
)

// Row 一行查询结果，键为 SELECT 中的别名
type Row map[string]any

// Value 按别名取值，别名不存在与 NULL 同样处理
func (r Row) Value(alias string) Value {
	v, ok := r[alias]
	if !ok || v == nil {
		return Value{}
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return Value{raw: v, valid: true}
}

// Value 单列的值，负责在驱动返回的类型（int64、[]byte、string 等）与目标类型之间转换
type Value struct {
	raw   any
	valid bool
}

// IsNull 是否为 NULL
func (v Value) IsNull() bool {
	return !v.valid
}

// Raw 原始值
func (v Value) Raw() any {
	return v.raw
}

func (v Value) Int() (int, error) {
	if !v.valid {
		return 0, nil
	}
	return cast.ToIntE(v.raw)
}

func (v Value) Int64() (int64, error) {
	if !v.valid {
		return 0, nil
	}
	return cast.ToInt64E(v.raw)
}

func (v Value) Uint() (uint, error) {
	if !v.valid {
		return 0, nil
	}
	return cast.ToUintE(v.raw)
}

func (v Value) Float64() (float64, error) {
	if !v.valid {
		return 0, nil
	}
	return cast.ToFloat64E(v.raw)
}

func (v Value) String() (string, error) {
	if !v.valid {
		return "", nil
	}
	return cast.ToStringE(v.raw)
}

// StringPtr NULL 返回 nil
func (v Value) StringPtr() (*string, error) {
	if !v.valid {
		return nil, nil
	}
	s, err := cast.ToStringE(v.raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UintPtr NULL 返回 nil
func (v Value) UintPtr() (*uint, error) {
	if !v.valid {
		return nil, nil
	}
	u, err := cast.ToUintE(v.raw)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// IntPtr NULL 返回 nil
func (v Value) IntPtr() (*int, error) {
	if !v.valid {
		return nil, nil
	}
	i, err := cast.ToIntE(v.raw)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
