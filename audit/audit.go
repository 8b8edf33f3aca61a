package audit

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
)

// Auditor 负责记录和管理审计日志的生命周期
type Auditor interface {
	// Record 方法是同步调用（由调用者负责传入 context 和 entry）
	// Auditor 内部决定是异步缓冲还是同步写入
	Record(ctx context.Context, entry *Entry) error

	// Flush 确保所有待处理的日志都被提交到最终存储
	Flush(ctx context.Context) error
}

// noopAuditor 不执行任何操作的 Auditor，用于默认情况
type noopAuditor struct{}

func (*noopAuditor) Record(_ context.Context, _ *Entry) error { return nil }
func (*noopAuditor) Flush(_ context.Context) error            { return nil }

func NewNoopAuditor() Auditor {
	return &noopAuditor{}
}

// LogAuditor 把审计条目写入 kratos 日志
type LogAuditor struct {
	log *log.Helper
}

func NewLogAuditor(logger log.Logger) *LogAuditor {
	return &LogAuditor{
		log: log.NewHelper(log.With(logger, "module", "member/audit")),
	}
}

func (a *LogAuditor) Record(_ context.Context, e *Entry) error {
	if e == nil {
		return nil
	}
	a.log.Infow(
		"trace_id", e.TraceID,
		"user_id", e.UserID,
		"username", e.Username,
		"action", e.Action,
		"resource", e.Resource,
		"operation", e.Operation,
		"affected", e.Affected,
		"status", e.Status,
		"error", e.ErrorMessage,
		"cost_ms", e.CostMS,
	)
	return nil
}

func (a *LogAuditor) Flush(_ context.Context) error { return nil }

// MemoryAuditor 保存在内存中的 Auditor，并发安全
type MemoryAuditor struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryAuditor() *MemoryAuditor {
	return &MemoryAuditor{}
}

func (a *MemoryAuditor) Record(_ context.Context, e *Entry) error {
	if e == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *e)
	return nil
}

func (a *MemoryAuditor) Flush(_ context.Context) error { return nil }

// Entries 返回已记录条目的副本
func (a *MemoryAuditor) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	dup := make([]Entry, len(a.entries))
	copy(dup, a.entries)
	return dup
}
