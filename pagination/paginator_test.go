package pagination

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type Member struct {
	ID  int
	Age int
}

func sqlOfScope(t *testing.T, scope func(*gorm.DB) *gorm.DB) (string, []any) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	var members []Member
	tx := db.Session(&gorm.Session{DryRun: true}).Model(&Member{}).Scopes(scope).Find(&members)
	if tx.Error != nil {
		t.Fatalf("unexpected error executing dummy query: %v", tx.Error)
	}
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestOffsetPaginator_Normalize(t *testing.T) {
	p := NewOffsetPaginator()

	off, lim := p.Normalize(-3, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, DefaultLimit, lim)

	off, lim = p.Normalize(5, MaxLimit+1)
	assert.Equal(t, 5, off)
	assert.Equal(t, MaxLimit, lim)
}

func TestOffsetPaginator_BuildDB(t *testing.T) {
	p := NewOffsetPaginator()

	sql, _ := sqlOfScope(t, p.BuildDB(0, 2))
	up := strings.ToUpper(sql)
	assert.Contains(t, up, "LIMIT")
	assert.NotContains(t, up, "OFFSET")

	sql, _ = sqlOfScope(t, p.BuildDB(1, 2))
	up = strings.ToUpper(sql)
	assert.Contains(t, up, "LIMIT")
	assert.Contains(t, up, "OFFSET")
}

func TestPagePaginator_ToOffset(t *testing.T) {
	p := NewPagePaginator()

	off, lim := p.ToOffset(3, 20)
	assert.Equal(t, 40, off)
	assert.Equal(t, 20, lim)

	off, lim = p.ToOffset(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, DefaultLimit, lim)
}

func TestPage(t *testing.T) {
	p := NewPage[int](nil, 4, 1, 2)
	assert.NotNil(t, p.Items)
	assert.True(t, p.HasNext())

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":4,"limit":2,"offset":1}`, string(b))

	p = NewPage([]int{1, 2}, 3, 1, 2)
	assert.False(t, p.HasNext())

	s := Map(p, func(i int) string { return strings.Repeat("x", i) })
	assert.Equal(t, []string{"x", "xx"}, s.Items)
	assert.Equal(t, int64(3), s.Total)

	var nilPage *Page[int]
	assert.False(t, nilPage.HasNext())
	assert.Nil(t, Map(nilPage, func(i int) int { return i }))
}
