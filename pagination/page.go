package pagination

// Page 分页结果：当前页数据以及忽略 offset/limit 的总数
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage 创建分页结果，Items 为 nil 时替换为空切片，序列化为 []
func NewPage[T any](items []T, total int64, offset, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// HasNext 是否还有下一页
func (p *Page[T]) HasNext() bool {
	if p == nil {
		return false
	}
	return int64(p.Offset+len(p.Items)) < p.Total
}

// Map 转换页内元素，保留分页元数据
func Map[S, T any](p *Page[S], fn func(S) T) *Page[T] {
	if p == nil {
		return nil
	}
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return &Page[T]{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}
