package member

import (
	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/predicate"
)

func UsernameEq(username string) predicate.Fragment {
	return predicate.TextEq(FieldUsername, username)
}

func TeamNameEq(teamName string) predicate.Fragment {
	return predicate.TextEq(FieldTeamName, teamName)
}

func AgeGoe(age *int) predicate.Fragment {
	return predicate.IntGoe(FieldAge, age)
}

func AgeLoe(age *int) predicate.Fragment {
	return predicate.IntLoe(FieldAge, age)
}

func AgeLt(age *int) predicate.Fragment {
	return predicate.IntLt(FieldAge, age)
}

func AgeGt(age *int) predicate.Fragment {
	return predicate.IntGt(FieldAge, age)
}

// AgeBetween goe <= age <= loe，缺失的一侧不限制
func AgeBetween(goe, loe *int) predicate.Fragment {
	return predicate.IntBetween(FieldAge, goe, loe)
}

// conditionFragments 声明式：可选片段列表，由执行器丢弃缺失项
func conditionFragments(cond entity.SearchCondition) []predicate.Fragment {
	return []predicate.Fragment{
		UsernameEq(cond.Username),
		TeamNameEq(cond.TeamName),
		AgeGoe(cond.AgeGoe),
		AgeLoe(cond.AgeLoe),
	}
}

// conditionBuilder 可变累加：从恒真开始逐个并入
func conditionBuilder(cond entity.SearchCondition) predicate.Predicate {
	b := predicate.NewBuilder()
	if predicate.HasText(cond.Username) {
		b.And(UsernameEq(cond.Username))
	}
	if predicate.HasText(cond.TeamName) {
		b.And(TeamNameEq(cond.TeamName))
	}
	if cond.AgeGoe != nil {
		b.And(AgeGoe(cond.AgeGoe))
	}
	if cond.AgeLoe != nil {
		b.And(AgeLoe(cond.AgeLoe))
	}
	return b.Predicate()
}
