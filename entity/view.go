package entity

// MemberTeamView 成员与所属团队的扁平投影
type MemberTeamView struct {
	MemberID uint    `column:"member_id" json:"memberId"`
	Username *string `column:"username" json:"username"`
	Age      int     `column:"age" json:"age"`
	TeamID   *uint   `column:"team_id" json:"teamId"`
	TeamName *string `column:"team_name" json:"teamName"`
}

// MemberView 只含成员自身字段的投影
type MemberView struct {
	Username *string `column:"username" json:"username"`
	Age      int     `column:"age" json:"age"`
}

// UserView 字段名与实体不同的投影：username 映射为 name
type UserView struct {
	Name *string `column:"name" json:"name"`
	Age  int     `column:"age" json:"age"`
}

// AgeStats 年龄聚合
type AgeStats struct {
	Count int64   `column:"count" json:"count"`
	Sum   int64   `column:"sum" json:"sum"`
	Avg   float64 `column:"avg" json:"avg"`
	Max   int     `column:"max" json:"max"`
	Min   int     `column:"min" json:"min"`
}

// TeamAgeStats 按团队分组的平均年龄
type TeamAgeStats struct {
	TeamName string  `column:"team_name" json:"teamName"`
	AvgAge   float64 `column:"avg_age" json:"avgAge"`
}
