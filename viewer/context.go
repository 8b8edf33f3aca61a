package viewer

import "context"

// Context 当前访问者（操作人）信息，批量变更时写入审计日志
type Context interface {
	// UserID 返回当前用户ID
	UserID() uint64

	// Username 返回操作人账号名
	Username() string

	// ClientIP 返回客户端 IP
	ClientIP() string

	// TraceID 返回当前请求的 Trace ID（用于日志跟踪）
	TraceID() string

	// ShouldAudit 返回是否需要记录审计日志
	ShouldAudit() bool
}

type contextKey struct{}

// WithContext 将 Context 注入 context
func WithContext(ctx context.Context, vc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, vc)
}

// FromContext 从 context 中提取 Context
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return nil, false
	}
	v := ctx.Value(contextKey{})
	vc, ok := v.(Context)
	return vc, ok
}

// MustFromContext 从 context 中提取 Context，若不存在则返回一个默认的 NoopContext
func MustFromContext(ctx context.Context) Context {
	if vc, ok := FromContext(ctx); ok && vc != nil {
		return vc
	}
	return NewNoopContext()
}
