package entity

// Team 团队
type Team struct {
	ID      uint     `gorm:"column:id;primaryKey" json:"id"`
	Name    string   `gorm:"column:name;size:64;not null" json:"name"`
	Members []Member `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// Member 成员，Username 允许为空，TeamID 为空表示未加入任何团队
type Member struct {
	ID       uint    `gorm:"column:id;primaryKey" json:"id"`
	Username *string `gorm:"column:username;size:64;index" json:"username"`
	Age      int     `gorm:"column:age;not null;default:0" json:"age"`
	TeamID   *uint   `gorm:"column:team_id;index" json:"teamId,omitempty"`
	Team     *Team   `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// NewMember 创建成员，username 为空串时存储为 NULL
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Age: age}
	if username != "" {
		m.Username = &username
	}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam 加入团队
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	if team.ID != 0 {
		id := team.ID
		m.TeamID = &id
	}
}

// GetUsername 空值安全
func (m *Member) GetUsername() string {
	if m == nil || m.Username == nil {
		return ""
	}
	return *m.Username
}
