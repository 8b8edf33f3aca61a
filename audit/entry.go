package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tx7do/go-crud-member/viewer"
)

type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

type Status int

const (
	StatusOK   Status = 0
	StatusFail Status = 1
)

// Entry 审计日志条目
type Entry struct {
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`

	// 操作者信息
	UserID   uint64 `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	UserIP   string `json:"user_ip,omitempty"`

	// 操作行为
	Action    string    `json:"action,omitempty"`
	Resource  string    `json:"resource,omitempty"`
	Operation Operation `json:"operation,omitempty"`

	// 数据变更：批量语句只记录过滤字段与赋值，不记录逐行前后值
	Filter    []string        `json:"filter,omitempty"`
	PostValue json.RawMessage `json:"post_value,omitempty"`
	Affected  int64           `json:"affected"`

	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CostMS       int64  `json:"cost_ms,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// NewEntry 用 context 中的访问者填充操作者信息，访问者没有 trace id 时生成一个
func NewEntry(ctx context.Context, action, resource string, op Operation) *Entry {
	vc := viewer.MustFromContext(ctx)

	traceID := vc.TraceID()
	if traceID == "" {
		traceID = uuid.NewString()
	}

	return &Entry{
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
		UserID:    vc.UserID(),
		Username:  vc.Username(),
		UserIP:    vc.ClientIP(),
		Action:    action,
		Resource:  resource,
		Operation: op,
	}
}

func (e *Entry) SetPostValue(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.PostValue = b
	return nil
}

// Finish 记录结果与耗时
func (e *Entry) Finish(start time.Time, affected int64, err error) {
	e.Affected = affected
	e.CostMS = time.Since(start).Milliseconds()
	if err != nil {
		e.Status = StatusFail
		e.ErrorMessage = err.Error()
		return
	}
	e.Status = StatusOK
}
