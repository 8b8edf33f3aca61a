package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/field"
	"github.com/tx7do/go-crud-member/join"
	"github.com/tx7do/go-crud-member/pagination"
	"github.com/tx7do/go-crud-member/predicate"
	"github.com/tx7do/go-crud-member/projection"
	"github.com/tx7do/go-crud-member/sorting"
)

type repositoryOptions struct {
	logger   log.Logger
	strategy projection.Strategy
}

// RepositoryOption 仓储选项
type RepositoryOption func(*repositoryOptions)

func WithLogger(l log.Logger) RepositoryOption {
	return func(o *repositoryOptions) { o.logger = l }
}

// WithProjectionStrategy Search 系列方法使用的映射方式，默认按字段拷贝
func WithProjectionStrategy(s projection.Strategy) RepositoryOption {
	return func(o *repositoryOptions) { o.strategy = s }
}

// Repository 成员查询仓储。
// 连接计划与投影在构造时计算一次，之后只读，可被并发使用。
type Repository struct {
	db     *gorm.DB
	logger log.Logger
	log    *log.Helper

	planner *join.Planner

	searchPlan join.Plan
	entityPlan join.Plan
	memberPlan join.Plan
	statsPlan  join.Plan

	memberTeams *Querier[entity.Member, entity.MemberTeamView]
	members     *Querier[entity.Member, entity.Member]
	memberViews map[projection.Strategy]*Querier[entity.Member, entity.MemberView]
	ageStats    *Querier[entity.Member, entity.AgeStats]
	teamStats   *Querier[entity.Member, entity.TeamAgeStats]
}

func NewRepository(db *gorm.DB, opts ...RepositoryOption) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	o := &repositoryOptions{
		logger:   log.GetLogger(),
		strategy: projection.StrategyFields,
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &Repository{
		db:          db,
		logger:      o.logger,
		log:         log.NewHelper(log.With(o.logger, "module", "member/repository")),
		planner:     newPlanner(),
		memberViews: make(map[projection.Strategy]*Querier[entity.Member, entity.MemberView], 3),
	}

	memberTeam, err := memberTeamProjection(o.strategy)
	if err != nil {
		return nil, err
	}
	r.memberTeams = NewQuerier[entity.Member](r.planner, memberTeam, o.logger)
	r.members = NewQuerier[entity.Member, entity.Member](r.planner, nil, o.logger)

	for _, s := range []projection.Strategy{projection.StrategyFields, projection.StrategyBean, projection.StrategyConstructor} {
		p, err := memberViewProjection(s)
		if err != nil {
			return nil, err
		}
		r.memberViews[s] = NewQuerier[entity.Member](r.planner, p, o.logger)
	}

	ageStats := ageStatsProjection()
	teamStats := teamAgeStatsProjection()
	r.ageStats = NewQuerier[entity.Member](r.planner, ageStats, o.logger)
	r.teamStats = NewQuerier[entity.Member](r.planner, teamStats, o.logger)

	// 按声明的输出、过滤与排序字段一次性计算连接计划
	r.searchPlan = r.planner.Plan(join.Left,
		projection.Fields(memberTeam),
		conditionFields,
		SortableFields.Fields(),
	)
	r.entityPlan = r.planner.Plan(join.Left, conditionFields, SortableFields.Fields())
	r.memberPlan = r.planner.Plan(join.Left, projection.Fields(r.memberViews[projection.StrategyFields].projection))
	r.statsPlan = r.planner.Plan(join.Inner, projection.Fields(teamStats))

	return r, nil
}

// WithTx 返回在 tx 上执行的仓储副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	dup := *r
	dup.db = tx
	return &dup
}

// Transaction 在一个事务中执行 fn，fn 返回错误时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(ctx context.Context, repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, r.WithTx(tx))
	})
}

// DB 当前使用的连接
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Save 保存成员，关联的团队未保存时一并创建
func (r *Repository) Save(ctx context.Context, m *entity.Member) error {
	if m == nil {
		return errors.New("member is nil")
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		r.log.Errorf("save member failed: %s", err.Error())
		return err
	}
	return nil
}

// SaveTeam 保存团队
func (r *Repository) SaveTeam(ctx context.Context, t *entity.Team) error {
	if t == nil {
		return errors.New("team is nil")
	}
	if err := r.db.WithContext(ctx).Omit("Members").Save(t).Error; err != nil {
		r.log.Errorf("save team failed: %s", err.Error())
		return err
	}
	return nil
}

// FindByID 按 id 查找成员，不存在时返回 nil, nil
func (r *Repository) FindByID(ctx context.Context, id uint) (*entity.Member, error) {
	return r.members.Get(ctx, r.db, id, nil, "Team")
}

// Get 按 id 读取成员，viewMask 限定读取的列
func (r *Repository) Get(ctx context.Context, id uint, viewMask *fieldmaskpb.FieldMask) (*entity.Member, error) {
	return r.members.Get(ctx, r.db, id, viewMask)
}

// FindAll 全部成员，按 id 升序
func (r *Repository) FindAll(ctx context.Context) ([]*entity.Member, error) {
	return r.members.Entities(ctx, r.db, Query{
		Plan:   r.memberPlan,
		Orders: []sorting.Order{sorting.AscOf(FieldMemberID)},
	})
}

// FindByUsername 按用户名精确匹配，空串只匹配用户名为空串的成员
func (r *Repository) FindByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	eq := predicate.Of(clause.Eq{Column: FieldUsername.ClauseColumn(), Value: username}, FieldUsername)
	return r.members.Entities(ctx, r.db, Query{
		Where:  []predicate.Fragment{predicate.Some(eq)},
		Plan:   r.memberPlan,
		Orders: []sorting.Order{sorting.AscOf(FieldMemberID)},
	})
}

// Search 按条件检索成员及其团队（声明式组合条件）。条件全部缺失时返回全部成员。
func (r *Repository) Search(ctx context.Context, cond entity.SearchCondition, orders ...sorting.Order) ([]entity.MemberTeamView, error) {
	return r.memberTeams.List(ctx, r.db, Query{
		Where:  conditionFragments(cond),
		Plan:   r.searchPlan,
		Orders: orders,
	})
}

// SearchByBuilder 与 Search 结果相同，条件由 Builder 逐个累加
func (r *Repository) SearchByBuilder(ctx context.Context, cond entity.SearchCondition, orders ...sorting.Order) ([]entity.MemberTeamView, error) {
	return r.memberTeams.List(ctx, r.db, Query{
		Where:  []predicate.Fragment{predicate.Some(conditionBuilder(cond))},
		Plan:   r.searchPlan,
		Orders: orders,
	})
}

// SearchPage 分页检索，Total 为忽略 offset/limit 的匹配总数
func (r *Repository) SearchPage(ctx context.Context, cond entity.SearchCondition, offset, limit int, orders ...sorting.Order) (*pagination.Page[entity.MemberTeamView], error) {
	return r.memberTeams.ListWithPaging(ctx, r.db, Query{
		Where:  conditionFragments(cond),
		Plan:   r.searchPlan,
		Orders: orders,
	}, offset, limit)
}

// SearchMember 按条件检索完整的成员实体。
// 与 Search 一致使用左连接：未加入团队的成员在没有 teamName 条件时也会返回。
func (r *Repository) SearchMember(ctx context.Context, cond entity.SearchCondition, orders ...sorting.Order) ([]*entity.Member, error) {
	if len(orders) == 0 {
		orders = []sorting.Order{sorting.AscOf(FieldMemberID)}
	}
	return r.members.Entities(ctx, r.db, Query{
		Where:  conditionFragments(cond),
		Plan:   r.entityPlan,
		Orders: orders,
	}, "Team")
}

// ListMemberViews 全部成员的 username/age 投影，strategy 决定映射方式
func (r *Repository) ListMemberViews(ctx context.Context, strategy projection.Strategy) ([]entity.MemberView, error) {
	q, ok := r.memberViews[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", projection.ErrUnknownStrategy, strategy)
	}
	return q.List(ctx, r.db, Query{
		Plan:   r.memberPlan,
		Orders: []sorting.Order{sorting.AscOf(FieldMemberID)},
	})
}

// ListUserViews 每个成员的 name 以及全体成员的最大年龄（子查询）
func (r *Repository) ListUserViews(ctx context.Context) ([]entity.UserView, error) {
	q := NewQuerier[entity.Member](r.planner, userViewProjection(r.db), r.logger)
	return q.List(ctx, r.db, Query{
		Plan:   r.memberPlan,
		Orders: []sorting.Order{sorting.AscOf(FieldMemberID)},
	})
}

// Stats 年龄的计数、求和、平均、最大与最小值
func (r *Repository) Stats(ctx context.Context) (*entity.AgeStats, error) {
	rows, err := r.ageStats.List(ctx, r.db, Query{Plan: r.memberPlan})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &entity.AgeStats{}, nil
	}
	return &rows[0], nil
}

// TeamAgeStats 每个团队的平均年龄，按团队名排序。没有成员的团队不出现。
func (r *Repository) TeamAgeStats(ctx context.Context) ([]entity.TeamAgeStats, error) {
	return r.teamStats.List(ctx, r.db, Query{
		Plan:    r.statsPlan,
		GroupBy: []field.Field{FieldTeamName},
		Orders:  []sorting.Order{sorting.AscOf(FieldTeamName)},
	})
}

// 以下批量操作直接在数据库执行。调用前已加载到内存的 Member 不会反映变更，
// 需要丢弃后重新查询。where 全部缺失时作用于全部成员。

// BulkUpdateAge 把匹配成员的 age 设为指定值
func (r *Repository) BulkUpdateAge(ctx context.Context, age int, where ...predicate.Fragment) (int64, error) {
	return r.members.BulkUpdate(ctx, r.db, "BulkUpdateAge", where, map[string]any{
		FieldAge.Column: age,
	})
}

// BulkAddAge age = age + delta
func (r *Repository) BulkAddAge(ctx context.Context, delta int, where ...predicate.Fragment) (int64, error) {
	return r.members.BulkUpdate(ctx, r.db, "BulkAddAge", where, map[string]any{
		FieldAge.Column: gorm.Expr(FieldAge.Column+" + ?", delta),
	})
}

// BulkMultiplyAge age = age * factor
func (r *Repository) BulkMultiplyAge(ctx context.Context, factor int, where ...predicate.Fragment) (int64, error) {
	return r.members.BulkUpdate(ctx, r.db, "BulkMultiplyAge", where, map[string]any{
		FieldAge.Column: gorm.Expr(FieldAge.Column+" * ?", factor),
	})
}

// BulkRename username = name
func (r *Repository) BulkRename(ctx context.Context, name string, where ...predicate.Fragment) (int64, error) {
	return r.members.BulkUpdate(ctx, r.db, "BulkRename", where, map[string]any{
		FieldUsername.Column: name,
	})
}

// BulkDelete 删除匹配的成员
func (r *Repository) BulkDelete(ctx context.Context, where ...predicate.Fragment) (int64, error) {
	return r.members.BulkDelete(ctx, r.db, "BulkDelete", where)
}
