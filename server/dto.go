package server

import (
	"github.com/tx7do/go-utils/mapper"

	"github.com/tx7do/go-crud-member/entity"
)

// MemberReply 单个成员的响应体
type MemberReply struct {
	ID       uint    `json:"id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
	TeamID   *uint   `json:"teamId"`
	TeamName *string `json:"teamName,omitempty"`
}

// AddAgeRequest 批量调整年龄，过滤条件只能引用成员自身字段
type AddAgeRequest struct {
	Delta    int    `json:"delta"`
	Username string `json:"username,omitempty"`
	AgeGoe   *int   `json:"ageGoe,omitempty"`
	AgeLoe   *int   `json:"ageLoe,omitempty"`
	TeamName string `json:"teamName,omitempty"`
}

// AffectedReply 批量操作影响的行数
type AffectedReply struct {
	Affected int64 `json:"affected"`
}

type memberMapper struct {
	copier *mapper.CopierMapper[MemberReply, entity.Member]
}

func newMemberMapper() *memberMapper {
	return &memberMapper{copier: mapper.NewCopierMapper[MemberReply, entity.Member]()}
}

func (m *memberMapper) ToReply(ent *entity.Member) *MemberReply {
	if ent == nil {
		return nil
	}
	reply := m.copier.ToDTO(ent)
	if reply == nil {
		return nil
	}
	if ent.Team != nil {
		name := ent.Team.Name
		reply.TeamName = &name
	}
	return reply
}
