package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx7do/go-crud-member/viewer"
)

func TestNewEntry_FromViewer(t *testing.T) {
	ctx := viewer.WithContext(context.Background(), viewer.Static{ID: 3, Name: "ops", IP: "127.0.0.1", Trace: "trace-1"})
	e := NewEntry(ctx, "BulkUpdateAge", "members", OpUpdate)

	assert.Equal(t, "trace-1", e.TraceID)
	assert.Equal(t, uint64(3), e.UserID)
	assert.Equal(t, "ops", e.Username)
	assert.Equal(t, "127.0.0.1", e.UserIP)
	assert.Equal(t, OpUpdate, e.Operation)
	assert.False(t, e.Timestamp.IsZero())
}

func TestNewEntry_GeneratesTraceID(t *testing.T) {
	e := NewEntry(context.Background(), "BulkDelete", "members", OpDelete)
	_, err := uuid.Parse(e.TraceID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), e.UserID)
}

func TestEntry_Finish(t *testing.T) {
	e := NewEntry(context.Background(), "BulkDelete", "members", OpDelete)
	e.Finish(time.Now(), 3, nil)
	assert.Equal(t, StatusOK, e.Status)
	assert.Equal(t, int64(3), e.Affected)

	e.Finish(time.Now(), 0, errors.New("boom"))
	assert.Equal(t, StatusFail, e.Status)
	assert.Equal(t, "boom", e.ErrorMessage)

	require.NoError(t, e.SetPostValue(map[string]any{"age": 1}))
	assert.JSONEq(t, `{"age":1}`, string(e.PostValue))
}

func TestAuditorFromContext(t *testing.T) {
	a := MustFromContext(context.Background())
	assert.NoError(t, a.Record(context.Background(), &Entry{}))
	assert.NoError(t, a.Flush(context.Background()))

	mem := NewMemoryAuditor()
	ctx := WithAuditor(context.Background(), mem)
	got, ok := FromContext(ctx)
	require.True(t, ok)

	require.NoError(t, got.Record(ctx, &Entry{Action: "x"}))
	require.NoError(t, got.Record(ctx, nil))
	assert.Len(t, mem.Entries(), 1)
	assert.Equal(t, "x", mem.Entries()[0].Action)
}

func TestLogAuditor(t *testing.T) {
	a := NewLogAuditor(log.DefaultLogger)
	assert.NoError(t, a.Record(context.Background(), NewEntry(context.Background(), "BulkRename", "members", OpUpdate)))
	assert.NoError(t, a.Record(context.Background(), nil))
	assert.NoError(t, a.Flush(context.Background()))
}
