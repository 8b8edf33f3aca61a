package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	member "github.com/tx7do/go-crud-member"
	"github.com/tx7do/go-crud-member/audit"
	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/pagination"
	"github.com/tx7do/go-crud-member/viewer"
)

func newTestServer(t *testing.T) *khttp.Server {
	t.Helper()

	c, err := member.NewClient(
		member.WithDriver("sqlite"),
		member.WithDSN(":memory:"),
		member.WithPool(1, 1, 0),
		member.WithMigrate(true),
		member.WithLogLevel(logger.Silent),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	repo, err := member.NewRepository(c.DB, member.WithLogger(log.DefaultLogger))
	require.NoError(t, err)
	require.NoError(t, member.SeedSample(context.Background(), repo))

	return NewHTTPServer("", 5*time.Second, NewMemberService(repo, log.DefaultLogger), log.DefaultLogger)
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func names(views []entity.MemberTeamView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		if v.Username != nil {
			out = append(out, *v.Username)
		}
	}
	return out
}

func TestSearchMembers(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/members/search?teamName=teamB&ageGoe=20&ageLoe=40", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	views := decode[[]entity.MemberTeamView](t, rec)
	assert.ElementsMatch(t, []string{"member3", "member4"}, names(views))

	// 没有任何条件
	rec = do(t, srv, http.MethodGet, "/v1/members/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entity.MemberTeamView](t, rec), 4)
}

func TestSearchMembers_Page(t *testing.T) {
	srv := newTestServer(t)

	q := url.Values{}
	q.Set("offset", "1")
	q.Set("limit", "2")
	q.Set("orderBy", "username desc")

	rec := do(t, srv, http.MethodGet, "/v1/members/search?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[pagination.Page[entity.MemberTeamView]](t, rec)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.Offset)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, []string{"member3", "member2"}, names(page.Items))
}

func TestSearchMembers_JsonOrderBy(t *testing.T) {
	srv := newTestServer(t)

	q := url.Values{}
	q.Set("orderBy", `["-age","username"]`)

	rec := do(t, srv, http.MethodGet, "/v1/members/search?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"member4", "member3", "member2", "member1"}, names(decode[[]entity.MemberTeamView](t, rec)))
}

func TestSearchMembers_BadRequest(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{
		"/v1/members/search?ageGoe=abc",
		"/v1/members/search?limit=x",
		"/v1/members/search?orderBy=" + url.QueryEscape("password desc"),
	} {
		rec := do(t, srv, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetMember(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/members/3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := decode[MemberReply](t, rec)
	assert.Equal(t, uint(3), reply.ID)
	require.NotNil(t, reply.Username)
	assert.Equal(t, "member3", *reply.Username)
	assert.Equal(t, 30, reply.Age)
	require.NotNil(t, reply.TeamName)
	assert.Equal(t, "teamB", *reply.TeamName)

	rec = do(t, srv, http.MethodGet, "/v1/members/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/members/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamStats(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/teams/stats", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[[]entity.TeamAgeStats](t, rec)
	require.Len(t, stats, 2)
	assert.Equal(t, entity.TeamAgeStats{TeamName: "teamA", AvgAge: 15}, stats[0])
	assert.Equal(t, entity.TeamAgeStats{TeamName: "teamB", AvgAge: 35}, stats[1])
}

func TestAddAge(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/v1/members/age", `{"delta":1,"ageGoe":20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(3), decode[AffectedReply](t, rec).Affected)

	rec = do(t, srv, http.MethodGet, "/v1/members/search?ageGoe=41", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"member4"}, names(decode[[]entity.MemberTeamView](t, rec)))

	// 批量语句不能引用 teams
	rec = do(t, srv, http.MethodPut, "/v1/members/age", `{"delta":1,"teamName":"teamA"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFilters(t *testing.T) {
	auditor := audit.NewMemoryAuditor()

	var got viewer.Context
	var hasAuditor bool
	h := ViewerFilter()(AuditFilter(auditor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = viewer.MustFromContext(r.Context())
		_, hasAuditor = audit.FromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Name", "alice")
	req.Header.Set("X-Request-Id", "trace-1")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, uint64(42), got.UserID())
	assert.Equal(t, "alice", got.Username())
	assert.Equal(t, "trace-1", got.TraceID())
	assert.Equal(t, "10.0.0.1", got.ClientIP())
	assert.True(t, hasAuditor)
}
