package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustFromContext(t *testing.T) {
	vc := MustFromContext(context.Background())
	assert.Equal(t, uint64(0), vc.UserID())
	assert.False(t, vc.ShouldAudit())


	ctx := WithContext(context.Background(), Static{ID: 7, Name: "admin", IP: "10.0.0.1", Trace: "t-1", Audited: true})
	vc = MustFromContext(ctx)
	assert.Equal(t, uint64(7), vc.UserID())
	assert.Equal(t, "admin", vc.Username())
	assert.Equal(t, "10.0.0.1", vc.ClientIP())
	assert.Equal(t, "t-1", vc.TraceID())
	assert.True(t, vc.ShouldAudit())

	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
