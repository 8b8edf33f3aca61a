package predicate

// Option 可选值：要么携带一个值，要么明确表示"缺失"。
// 缺失是正常情况而不是错误，零值即为 None。
type Option[T any] struct {
	value T
	ok    bool
}

// Some 携带值的 Option
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None 缺失的 Option
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get 返回值以及是否存在
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent 是否存在值
func (o Option[T]) IsPresent() bool {
	return o.ok
}

// OrElse 缺失时返回 def
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
