package projection

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/tx7do/go-crud-member/field"
)

// FieldsProjection 按别名把列拷贝到 T 中带有相同 column 标签的字段
type FieldsProjection[T any] struct {
	selections []field.Selection
}

// NewFields 创建字段拷贝投影。源列名与目标字段名不同时用 field.As 重命名。
func NewFields[T any](selections ...field.Selection) *FieldsProjection[T] {
	return &FieldsProjection[T]{selections: copySelections(selections)}
}

func (p *FieldsProjection[T]) Selections() []field.Selection {
	return copySelections(p.selections)
}

func (p *FieldsProjection[T]) Map(row Row) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       bytesToString,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "column",
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err = decoder.Decode(map[string]any(row)); err != nil {
		return out, err
	}
	return out, nil
}

// bytesToString 部分驱动以 []byte 返回文本与数字
func bytesToString(_ reflect.Type, _ reflect.Type, data any) (any, error) {
	if b, ok := data.([]byte); ok {
		return string(b), nil
	}
	return data, nil
}
