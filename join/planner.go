package join

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tx7do/go-crud-member/field"
)

// ErrMissingJoin 查询引用了计划中未连接的表
var ErrMissingJoin = errors.New("missing join")

// Kind 连接类型
type Kind int

const (
	Inner Kind = iota
	Left
)

func (k Kind) String() string {
	switch k {
	case Left:
		return "LEFT JOIN"
	default:
		return "INNER JOIN"
	}
}

// Relation 从根表指向关联表的外键关系：Table.References = root.ForeignKey
type Relation struct {
	Table      string
	ForeignKey string
	References string
}

// Planner 连接规划器：根据声明的字段集合决定需要哪些关联表
type Planner struct {
	root      string
	relations map[string]Relation
	order     []string
}

func NewPlanner(root string, relations ...Relation) *Planner {
	p := &Planner{
		root:      root,
		relations: make(map[string]Relation, len(relations)),
	}
	for _, r := range relations {
		if _, ok := p.relations[r.Table]; !ok {
			p.order = append(p.order, r.Table)
		}
		p.relations[r.Table] = r
	}
	return p
}

// Root 根表名
func (p *Planner) Root() string {
	return p.root
}

// Plan 根据字段集合计算连接计划。未声明关系的表会被忽略，执行时由 Plan.Check 报告。
func (p *Planner) Plan(kind Kind, fieldSets ...[]field.Field) Plan {
	var all []field.Field
	for _, fs := range fieldSets {
		all = append(all, fs...)
	}

	need := make(map[string]struct{})
	for _, t := range field.Tables(all...) {
		if t == p.root {
			continue
		}
		if _, ok := p.relations[t]; ok {
			need[t] = struct{}{}
		}
	}

	plan := Plan{root: p.root, kind: kind}
	// 按关系声明顺序输出，保证生成的 SQL 稳定
	for _, t := range p.order {
		if _, ok := need[t]; ok {
			plan.joins = append(plan.joins, p.relations[t])
		}
	}
	return plan
}

// Plan 一次查询使用的连接集合，计算后不可变
type Plan struct {
	root  string
	kind  Kind
	joins []Relation
}

// IsZero 未经 Planner 计算的零值计划
func (p Plan) IsZero() bool {
	return p.root == ""
}

// Kind 连接类型
func (p Plan) Kind() Kind {
	return p.kind
}

// Joins 返回需要连接的关系
func (p Plan) Joins() []Relation {
	dup := make([]Relation, len(p.joins))
	copy(dup, p.joins)
	return dup
}

// Requires 计划是否连接了 table
func (p Plan) Requires(table string) bool {
	for _, r := range p.joins {
		if r.Table == table {
			return true
		}
	}
	return false
}

// Covers 根表或已连接的表
func (p Plan) Covers(table string) bool {
	return table == p.root || p.Requires(table)
}

// Check 校验 fields 引用的表都已被连接
func (p Plan) Check(fields ...field.Field) error {
	for _, t := range field.Tables(fields...) {
		if !p.Covers(t) {
			return fmt.Errorf("%w: table %q is not joined to %q", ErrMissingJoin, t, p.root)
		}
	}
	return nil
}

// Clauses 渲染连接子句
func (p Plan) Clauses() []string {
	out := make([]string, 0, len(p.joins))
	for _, r := range p.joins {
		out = append(out, fmt.Sprintf("%s %s ON %s.%s = %s.%s",
			p.kind, r.Table, r.Table, r.References, p.root, r.ForeignKey))
	}
	return out
}

func (p Plan) String() string {
	return strings.Join(p.Clauses(), " ")
}

// Scope 返回应用连接的 gorm scope
func (p Plan) Scope() func(*gorm.DB) *gorm.DB {
	clauses := p.Clauses()
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = db.Joins(c)
		}
		return db
	}
}
