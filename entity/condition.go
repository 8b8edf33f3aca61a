package entity

// SearchCondition 成员检索条件，所有字段都是可选的。
// 空白字符串与未设置等价，nil 表示不限制。
type SearchCondition struct {
	Username string `json:"username,omitempty"`
	TeamName string `json:"teamName,omitempty"`
	AgeGoe   *int   `json:"ageGoe,omitempty"`
	AgeLoe   *int   `json:"ageLoe,omitempty"`
}
