package viewer

// noopContext 实现 Context 接口，用于表示匿名或未授权用户
type noopContext struct{}

func (noopContext) UserID() uint64    { return 0 }
func (noopContext) Username() string  { return "" }
func (noopContext) ClientIP() string  { return "" }
func (noopContext) TraceID() string   { return "" }
func (noopContext) ShouldAudit() bool { return false }

// NewNoopContext 创建一个匿名上下文实例
func NewNoopContext() Context {
	return noopContext{}
}

// Static 固定内容的访问者，用于 HTTP 中间件、CLI 与测试
type Static struct {
	ID      uint64
	Name    string
	IP      string
	Trace   string
	Audited bool
}

func (s Static) UserID() uint64    { return s.ID }
func (s Static) Username() string  { return s.Name }
func (s Static) ClientIP() string  { return s.IP }
func (s Static) TraceID() string   { return s.Trace }
func (s Static) ShouldAudit() bool { return s.Audited }
