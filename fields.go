package member

import (
	"github.com/tx7do/go-crud-member/field"
	"github.com/tx7do/go-crud-member/join"
)

const (
	tableMembers = "members"
	tableTeams   = "teams"
)

// 可查询的字段
var (
	FieldMemberID     = field.New(tableMembers, "id", "memberId")
	FieldUsername     = field.New(tableMembers, "username", "username")
	FieldAge          = field.New(tableMembers, "age", "age")
	FieldMemberTeamID = field.New(tableMembers, "team_id", "memberTeamId")
	FieldTeamID       = field.New(tableTeams, "id", "teamId")
	FieldTeamName     = field.New(tableTeams, "name", "teamName")
)

// SortableFields 允许排序的字段，按逻辑名查找
var SortableFields = field.NewRegistry(
	FieldMemberID,
	FieldUsername,
	FieldAge,
	FieldTeamID,
	FieldTeamName,
)

// conditionFields SearchCondition 可能引用的全部字段
var conditionFields = []field.Field{FieldUsername, FieldTeamName, FieldAge}

// teamRelation members.team_id -> teams.id
var teamRelation = join.Relation{
	Table:      tableTeams,
	ForeignKey: "team_id",
	References: "id",
}

func newPlanner() *join.Planner {
	return join.NewPlanner(tableMembers, teamRelation)
}
