package member

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/field"
	"github.com/tx7do/go-crud-member/projection"
)

var memberTeamSelections = []field.Selection{
	field.As(FieldMemberID, "member_id"),
	field.As(FieldUsername, "username"),
	field.As(FieldAge, "age"),
	field.As(FieldTeamID, "team_id"),
	field.As(FieldTeamName, "team_name"),
}

// memberTeamProjection MemberTeamView 的三种等价映射方式
func memberTeamProjection(s projection.Strategy) (projection.Projection[entity.MemberTeamView], error) {
	sels := memberTeamSelections
	switch s {
	case projection.StrategyFields:
		return projection.NewFields[entity.MemberTeamView](sels...), nil

	case projection.StrategyBean:
		return projection.NewBean(
			projection.Prop(sels[0], func(d *entity.MemberTeamView, v projection.Value) (err error) {
				d.MemberID, err = v.Uint()
				return
			}),
			projection.Prop(sels[1], func(d *entity.MemberTeamView, v projection.Value) (err error) {
				d.Username, err = v.StringPtr()
				return
			}),
			projection.Prop(sels[2], func(d *entity.MemberTeamView, v projection.Value) (err error) {
				d.Age, err = v.Int()
				return
			}),
			projection.Prop(sels[3], func(d *entity.MemberTeamView, v projection.Value) (err error) {
				d.TeamID, err = v.UintPtr()
				return
			}),
			projection.Prop(sels[4], func(d *entity.MemberTeamView, v projection.Value) (err error) {
				d.TeamName, err = v.StringPtr()
				return
			}),
		), nil

	case projection.StrategyConstructor:
		return projection.NewConstructor(newMemberTeamView, sels...), nil
	}
	return nil, fmt.Errorf("%w: %s", projection.ErrUnknownStrategy, s)
}

func newMemberTeamView(values ...projection.Value) (entity.MemberTeamView, error) {
	var v entity.MemberTeamView
	var err error
	if v.MemberID, err = values[0].Uint(); err != nil {
		return v, err
	}
	if v.Username, err = values[1].StringPtr(); err != nil {
		return v, err
	}
	if v.Age, err = values[2].Int(); err != nil {
		return v, err
	}
	if v.TeamID, err = values[3].UintPtr(); err != nil {
		return v, err
	}
	v.TeamName, err = values[4].StringPtr()
	return v, err
}

var memberViewSelections = []field.Selection{
	field.As(FieldUsername, "username"),
	field.As(FieldAge, "age"),
}

func memberViewProjection(s projection.Strategy) (projection.Projection[entity.MemberView], error) {
	sels := memberViewSelections
	switch s {
	case projection.StrategyFields:
		return projection.NewFields[entity.MemberView](sels...), nil

	case projection.StrategyBean:
		return projection.NewBean(
			projection.Prop(sels[0], func(d *entity.MemberView, v projection.Value) (err error) {
				d.Username, err = v.StringPtr()
				return
			}),
			projection.Prop(sels[1], func(d *entity.MemberView, v projection.Value) (err error) {
				d.Age, err = v.Int()
				return
			}),
		), nil

	case projection.StrategyConstructor:
		return projection.NewConstructor(func(values ...projection.Value) (entity.MemberView, error) {
			var v entity.MemberView
			var err error
			if v.Username, err = values[0].StringPtr(); err != nil {
				return v, err
			}
			v.Age, err = values[1].Int()
			return v, err
		}, sels...), nil
	}
	return nil, fmt.Errorf("%w: %s", projection.ErrUnknownStrategy, s)
}

// userViewProjection name 取自 username，age 取自全表最大年龄的子查询
func userViewProjection(db *gorm.DB) projection.Projection[entity.UserView] {
	maxAge := db.Session(&gorm.Session{NewDB: true}).
		Table("members AS member_sub").
		Select("MAX(member_sub.age)")

	return projection.NewFields[entity.UserView](
		field.As(FieldUsername, "name"),
		projection.SubQuery(maxAge, "age"),
	)
}

func ageStatsProjection() projection.Projection[entity.AgeStats] {
	return projection.NewFields[entity.AgeStats](
		field.Expr("COUNT(members.id)", "count", nil, FieldMemberID),
		field.Expr("SUM(members.age)", "sum", nil, FieldAge),
		field.Expr("AVG(members.age)", "avg", nil, FieldAge),
		field.Expr("MAX(members.age)", "max", nil, FieldAge),
		field.Expr("MIN(members.age)", "min", nil, FieldAge),
	)
}

func teamAgeStatsProjection() projection.Projection[entity.TeamAgeStats] {
	return projection.NewFields[entity.TeamAgeStats](
		field.As(FieldTeamName, "team_name"),
		field.Expr("AVG(members.age)", "avg_age", nil, FieldAge),
	)
}
