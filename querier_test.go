package member

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tx7do/go-utils/trans"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gorm.io/gorm"

	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/join"
	"github.com/tx7do/go-crud-member/predicate"
	"github.com/tx7do/go-crud-member/sorting"
)

func openDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db.Session(&gorm.Session{DryRun: true})
}

func TestQuerier_ListSQL(t *testing.T) {
	db := openDryRunDB(t)
	proj, err := memberTeamProjection(0)
	require.NoError(t, err)

	planner := newPlanner()
	q := NewQuerier[entity.Member](planner, proj, log.DefaultLogger)
	plan := planner.Plan(join.Left, conditionFields)

	tx, err := q.listDB(context.Background(), db, Query{
		Where:  conditionFragments(entity.SearchCondition{TeamName: "teamB", AgeGoe: trans.Ptr(20), AgeLoe: trans.Ptr(40)}),
		Plan:   plan,
		Orders: []sorting.Order{sorting.DescOf(FieldAge)},
	})
	require.NoError(t, err)

	var rows []map[string]any
	stmt := tx.Find(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "members.id AS member_id")
	assert.Contains(t, sql, "teams.name AS team_name")
	assert.Contains(t, sql, "LEFT JOIN teams ON teams.id = members.team_id")
	assert.Contains(t, sql, "`teams`.`name` = ?")
	assert.Contains(t, sql, "`members`.`age` >= ?")
	assert.Contains(t, sql, "`members`.`age` <= ?")
	assert.Contains(t, sql, "members.age DESC")
	assert.Equal(t, []any{"teamB", 20, 40}, stmt.Vars)
}

func TestQuerier_ListSQL_NoFilter(t *testing.T) {
	db := openDryRunDB(t)
	proj, err := memberViewProjection(0)
	require.NoError(t, err)

	planner := newPlanner()
	q := NewQuerier[entity.Member](planner, proj, nil)

	tx, err := q.listDB(context.Background(), db, Query{
		Where: []predicate.Fragment{UsernameEq(""), AgeGoe(nil)},
		Plan:  planner.Plan(join.Left),
	})
	require.NoError(t, err)

	var rows []map[string]any
	sql := strings.ToUpper(tx.Find(&rows).Statement.SQL.String())
	assert.NotContains(t, sql, "WHERE")
	assert.NotContains(t, sql, "JOIN")
}

func TestQuerier_MissingJoin(t *testing.T) {
	db := openDryRunDB(t)
	planner := newPlanner()
	noJoin := planner.Plan(join.Left)

	proj, err := memberViewProjection(0)
	require.NoError(t, err)
	q := NewQuerier[entity.Member](planner, proj, nil)

	// 过滤条件引用 teams
	_, err = q.List(context.Background(), db, Query{
		Where: []predicate.Fragment{TeamNameEq("teamA")},
		Plan:  noJoin,
	})
	assert.ErrorIs(t, err, ErrMissingJoin)

	// 排序引用 teams
	_, err = q.List(context.Background(), db, Query{
		Plan:   noJoin,
		Orders: []sorting.Order{sorting.AscOf(FieldTeamName)},
	})
	assert.ErrorIs(t, err, ErrMissingJoin)

	// 投影引用 teams
	teamProj, err := memberTeamProjection(0)
	require.NoError(t, err)
	_, err = NewQuerier[entity.Member](planner, teamProj, nil).List(context.Background(), db, Query{Plan: noJoin})
	assert.ErrorIs(t, err, ErrMissingJoin)
}

func TestQuerier_NilDB(t *testing.T) {
	proj, err := memberViewProjection(0)
	require.NoError(t, err)
	q := NewQuerier[entity.Member](newPlanner(), proj, nil)

	_, err = q.List(context.Background(), nil, Query{})
	assert.ErrorIs(t, err, ErrNilDB)
	_, err = q.Count(context.Background(), nil, Query{})
	assert.ErrorIs(t, err, ErrNilDB)
	_, err = q.BulkDelete(context.Background(), nil, "BulkDelete", nil)
	assert.ErrorIs(t, err, ErrNilDB)
	_, err = q.Get(context.Background(), nil, 1, nil)
	assert.ErrorIs(t, err, ErrNilDB)
	_, err = q.Entities(context.Background(), nil, Query{})
	assert.ErrorIs(t, err, ErrNilDB)
	_, err = q.ListWithPaging(context.Background(), nil, Query{}, 0, 10)
	assert.ErrorIs(t, err, ErrNilDB)
}

func TestQuerier_ZeroPlanQueriesRootTable(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	proj, err := memberViewProjection(0)
	require.NoError(t, err)
	q := NewQuerier[entity.Member](newPlanner(), proj, nil)

	views, err := q.List(ctx, r.DB(), Query{})
	require.NoError(t, err)
	assert.Len(t, views, 4)

	// 根表字段的过滤与排序不需要连接
	views, err = q.List(ctx, r.DB(), Query{
		Where:  []predicate.Fragment{AgeGoe(trans.Ptr(20))},
		Orders: []sorting.Order{sorting.DescOf(FieldAge)},
	})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 40, views[0].Age)

	cnt, err := q.Count(ctx, r.DB(), Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), cnt)

	entities, err := q.Entities(ctx, r.DB(), Query{})
	require.NoError(t, err)
	assert.Len(t, entities, 4)

	// 零值计划不会连接 teams
	_, err = q.List(ctx, r.DB(), Query{Where: []predicate.Fragment{TeamNameEq("teamA")}})
	assert.ErrorIs(t, err, ErrMissingJoin)
}

func TestConditionBuilderMatchesFragments(t *testing.T) {
	for _, cond := range []entity.SearchCondition{
		{},
		{Username: "member1"},
		{TeamName: "teamA", AgeLoe: trans.Ptr(30)},
		{Username: " ", TeamName: "teamB", AgeGoe: trans.Ptr(20), AgeLoe: trans.Ptr(40)},
	} {
		declarative := predicate.AllOf(conditionFragments(cond)...)
		builder := conditionBuilder(cond)
		assert.Equal(t, declarative, builder, "%+v", cond)
	}
}

type recordingTracer struct {
	noop.Tracer
	names []string
}

func (rt *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	rt.names = append(rt.names, name)
	return rt.Tracer.Start(ctx, name, opts...)
}

func TestQuerier_Spans(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	proj, err := memberViewProjection(0)
	require.NoError(t, err)
	q := NewQuerier[entity.Member](newPlanner(), proj, nil)
	rt := &recordingTracer{}
	q.tracer = rt

	m, err := q.Get(ctx, r.DB(), 1, nil)
	require.NoError(t, err)
	require.NotNil(t, m)

	m, err = q.Get(ctx, r.DB(), 99, nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = q.List(ctx, r.DB(), Query{})
	require.NoError(t, err)
	_, err = q.Entities(ctx, r.DB(), Query{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Querier.Get", "Querier.Get", "Querier.List", "Querier.Entities"}, rt.names)
}
