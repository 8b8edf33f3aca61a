package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tx7do/go-crud-member/audit"
	"github.com/tx7do/go-crud-member/field"
	"github.com/tx7do/go-crud-member/join"
	"github.com/tx7do/go-crud-member/pagination"
	"github.com/tx7do/go-crud-member/predicate"
	"github.com/tx7do/go-crud-member/projection"
	"github.com/tx7do/go-crud-member/sorting"
)

const tracerName = "github.com/tx7do/go-crud-member"

// Query 一次查询的全部输入。Where 中缺失的片段会被丢弃，全部缺失时匹配所有记录。
type Query struct {
	Where   []predicate.Fragment
	Plan    join.Plan
	Orders  []sorting.Order
	GroupBy []field.Field
}

// Querier GORM 查询器：组合过滤、连接、投影、排序与分页并执行
type Querier[ENTITY any, VIEW any] struct {
	projection projection.Projection[VIEW]
	planner    *join.Planner

	structuredSorting *sorting.StructuredSorting
	offsetPaginator   *pagination.OffsetPaginator
	fieldSelector     *field.Selector

	log    *log.Helper
	tracer trace.Tracer
}

func NewQuerier[ENTITY any, VIEW any](planner *join.Planner, proj projection.Projection[VIEW], logger log.Logger) *Querier[ENTITY, VIEW] {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Querier[ENTITY, VIEW]{
		projection: proj,
		planner:    planner,

		structuredSorting: sorting.NewStructuredSorting(),
		offsetPaginator:   pagination.NewOffsetPaginator(),
		fieldSelector:     field.NewFieldSelector(),

		log:    log.NewHelper(log.With(logger, "module", "member/querier")),
		tracer: otel.Tracer(tracerName),
	}
}

func (q *Querier[ENTITY, VIEW]) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return q.tracer.Start(ctx, "Querier."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// base 应用连接与过滤条件，并校验条件引用的表都已连接
func (q *Querier[ENTITY, VIEW]) base(ctx context.Context, db *gorm.DB, query Query) (*gorm.DB, predicate.Predicate, error) {
	if db == nil {
		return nil, predicate.True(), ErrNilDB
	}

	plan := q.resolvePlan(query.Plan)
	pred := predicate.AllOf(query.Where...)
	if err := plan.Check(pred.Fields()...); err != nil {
		return nil, pred, err
	}

	tx := db.WithContext(ctx).
		Model(new(ENTITY)).
		Scopes(plan.Scope(), pred.Scope())
	return tx, pred, nil
}

// resolvePlan 零值计划退化为只查询根表
func (q *Querier[ENTITY, VIEW]) resolvePlan(plan join.Plan) join.Plan {
	if plan.IsZero() && q.planner != nil {
		return q.planner.Plan(join.Inner)
	}
	return plan
}

// listDB 在 base 的基础上加入投影、分组与排序
func (q *Querier[ENTITY, VIEW]) listDB(ctx context.Context, db *gorm.DB, query Query) (*gorm.DB, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if q.projection == nil {
		return nil, errors.New("projection is nil")
	}

	plan := q.resolvePlan(query.Plan)
	selections := q.projection.Selections()
	if err := plan.Check(field.Refs(selections)...); err != nil {
		return nil, err
	}
	if err := plan.Check(sorting.Fields(query.Orders)...); err != nil {
		return nil, err
	}
	if err := plan.Check(query.GroupBy...); err != nil {
		return nil, err
	}

	tx, _, err := q.base(ctx, db, query)
	if err != nil {
		return nil, err
	}

	tx = q.fieldSelector.BuildSelect(tx, selections)
	for _, g := range query.GroupBy {
		tx = tx.Group(g.Qualified())
	}
	tx = tx.Scopes(q.structuredSorting.BuildScope(query.Orders))
	return tx, nil
}

func (q *Querier[ENTITY, VIEW]) find(tx *gorm.DB) ([]VIEW, error) {
	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		q.log.Errorf("query list failed: %s", err.Error())
		return nil, fmt.Errorf("query list failed: %w", err)
	}
	return projection.MapRows(q.projection, rows)
}

// List 查询并投影，不分页
func (q *Querier[ENTITY, VIEW]) List(ctx context.Context, db *gorm.DB, query Query) (items []VIEW, err error) {
	ctx, span := q.startSpan(ctx, "List")
	defer func() { endSpan(span, err) }()

	tx, err := q.listDB(ctx, db, query)
	if err != nil {
		return nil, err
	}

	items, err = q.find(tx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(items)))
	return items, nil
}

// ListWithPaging 查询一页数据以及忽略 offset/limit 的总数。
// 数据与计数使用同一个过滤条件和连接计划；offset 为 0 且本页不满时直接以本页条数作为总数。
// 两次查询之间数据被并发修改时，Total 可能与 Items 不一致。
func (q *Querier[ENTITY, VIEW]) ListWithPaging(ctx context.Context, db *gorm.DB, query Query, offset, limit int) (page *pagination.Page[VIEW], err error) {
	ctx, span := q.startSpan(ctx, "ListWithPaging")
	defer func() { endSpan(span, err) }()

	offset, limit = q.offsetPaginator.Normalize(offset, limit)
	span.SetAttributes(attribute.Int("offset", offset), attribute.Int("limit", limit))

	tx, err := q.listDB(ctx, db, query)
	if err != nil {
		return nil, err
	}
	tx = tx.Scopes(q.offsetPaginator.BuildDB(offset, limit))

	items, err := q.find(tx)
	if err != nil {
		return nil, err
	}

	var total int64
	if offset == 0 && len(items) < limit {
		total = int64(len(items))
	} else {
		// 计数（只使用过滤条件与连接）
		if total, err = q.Count(ctx, db, query); err != nil {
			q.log.Errorf("count query failed: %s", err.Error())
			return nil, err
		}
	}

	return pagination.NewPage(items, total, offset, limit), nil
}

// Count 计算符合条件的记录数
func (q *Querier[ENTITY, VIEW]) Count(ctx context.Context, db *gorm.DB, query Query) (int64, error) {
	tx, _, err := q.base(ctx, db, query)
	if err != nil {
		return 0, err
	}

	var cnt int64
	if err = tx.Count(&cnt).Error; err != nil {
		q.log.Errorf("query count failed: %s", err.Error())
		return 0, fmt.Errorf("query count failed: %w", err)
	}
	return cnt, nil
}

// Entities 查询完整实体，preloads 为需要预加载的关联
func (q *Querier[ENTITY, VIEW]) Entities(ctx context.Context, db *gorm.DB, query Query, preloads ...string) (entities []*ENTITY, err error) {
	ctx, span := q.startSpan(ctx, "Entities")
	defer func() { endSpan(span, err) }()

	if db == nil {
		return nil, ErrNilDB
	}
	if err = q.resolvePlan(query.Plan).Check(sorting.Fields(query.Orders)...); err != nil {
		return nil, err
	}

	tx, _, err := q.base(ctx, db, query)
	if err != nil {
		return nil, err
	}
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	tx = tx.Scopes(q.structuredSorting.BuildScope(query.Orders))

	if err = tx.Find(&entities).Error; err != nil {
		q.log.Errorf("query entities failed: %s", err.Error())
		return nil, fmt.Errorf("query entities failed: %w", err)
	}
	return entities, nil
}

// Get 按主键读取单条记录，viewMask 非空时只读取其中的列。记录不存在时返回 nil, nil。
func (q *Querier[ENTITY, VIEW]) Get(ctx context.Context, db *gorm.DB, id any, viewMask *fieldmaskpb.FieldMask, preloads ...string) (ent *ENTITY, err error) {
	ctx, span := q.startSpan(ctx, "Get")
	defer func() { endSpan(span, err) }()

	if db == nil {
		return nil, ErrNilDB
	}

	field.NormalizeFieldMaskPaths(viewMask)

	qdb := db.WithContext(ctx).Model(new(ENTITY))
	if viewMask != nil && len(viewMask.Paths) > 0 {
		qdb = q.fieldSelector.BuildColumnSelect(qdb, viewMask.GetPaths())
	}
	for _, p := range preloads {
		qdb = qdb.Preload(p)
	}

	var found ENTITY
	if err = qdb.First(&found, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("found", false))
			return nil, nil
		}
		q.log.Errorf("query get failed: %s", err.Error())
		return nil, fmt.Errorf("query get failed: %w", err)
	}
	span.SetAttributes(attribute.Bool("found", true))
	return &found, nil
}

// bulkDB 批量语句只能引用根表；条件为空时显式允许全表操作
func (q *Querier[ENTITY, VIEW]) bulkDB(ctx context.Context, db *gorm.DB, where []predicate.Fragment) (*gorm.DB, predicate.Predicate, error) {
	if db == nil {
		return nil, predicate.True(), ErrNilDB
	}

	pred := predicate.AllOf(where...)
	if err := q.planner.Plan(join.Inner).Check(pred.Fields()...); err != nil {
		return nil, pred, err
	}

	tx := db.WithContext(ctx)
	if pred.IsTrue() {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	return tx.Model(new(ENTITY)).Scopes(pred.Scope()), pred, nil
}

// BulkUpdate 对所有匹配的行执行集合更新，返回受影响行数。
// 语句直接作用于数据库：调用前已加载到内存中的实体不会反映更新，需丢弃后重新查询。
func (q *Querier[ENTITY, VIEW]) BulkUpdate(ctx context.Context, db *gorm.DB, action string, where []predicate.Fragment, assignments map[string]any) (affected int64, err error) {
	ctx, span := q.startSpan(ctx, "BulkUpdate")
	defer func() { endSpan(span, err) }()

	if len(assignments) == 0 {
		return 0, errors.New("no assignments")
	}

	start := time.Now()
	tx, pred, err := q.bulkDB(ctx, db, where)
	if err != nil {
		return 0, err
	}

	res := tx.Updates(assignments)
	affected, err = res.RowsAffected, res.Error
	if err != nil {
		q.log.Errorf("bulk update failed: %s", err.Error())
		err = fmt.Errorf("bulk update failed: %w", err)
	}

	q.record(ctx, db, action, audit.OpUpdate, pred, assignments, start, affected, err)
	span.SetAttributes(attribute.Int64("affected", affected))
	return affected, err
}

// BulkDelete 删除所有匹配的行，返回受影响行数。已加载的实体不会感知删除。
func (q *Querier[ENTITY, VIEW]) BulkDelete(ctx context.Context, db *gorm.DB, action string, where []predicate.Fragment) (affected int64, err error) {
	ctx, span := q.startSpan(ctx, "BulkDelete")
	defer func() { endSpan(span, err) }()

	start := time.Now()
	tx, pred, err := q.bulkDB(ctx, db, where)
	if err != nil {
		return 0, err
	}

	res := tx.Delete(new(ENTITY))
	affected, err = res.RowsAffected, res.Error
	if err != nil {
		q.log.Errorf("bulk delete failed: %s", err.Error())
		err = fmt.Errorf("bulk delete failed: %w", err)
	}

	q.record(ctx, db, action, audit.OpDelete, pred, nil, start, affected, err)
	span.SetAttributes(attribute.Int64("affected", affected))
	return affected, err
}

func (q *Querier[ENTITY, VIEW]) record(ctx context.Context, db *gorm.DB, action string, op audit.Operation, pred predicate.Predicate, assignments map[string]any, start time.Time, affected int64, err error) {
	auditor, ok := audit.FromContext(ctx)
	if !ok {
		return
	}

	stmt := &gorm.Statement{DB: db}
	_ = stmt.Parse(new(ENTITY))
	resource := stmt.Table

	entry := audit.NewEntry(ctx, action, resource, op)
	for _, f := range pred.Fields() {
		entry.Filter = append(entry.Filter, f.Qualified())
	}
	if len(assignments) > 0 {
		post := make(map[string]string, len(assignments))
		for k, v := range assignments {
			if expr, ok := v.(clause.Expr); ok {
				post[k] = fmt.Sprintf("%s %v", expr.SQL, expr.Vars)
				continue
			}
			post[k] = fmt.Sprint(v)
		}
		_ = entry.SetPostValue(post)
	}
	entry.Finish(start, affected, err)

	if rerr := auditor.Record(ctx, entry); rerr != nil {
		q.log.Warnf("record audit entry failed: %s", rerr.Error())
	}
}
