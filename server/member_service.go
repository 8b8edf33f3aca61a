package server

import (
	"context"
	"errors"
	"net/url"
	"strings"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/spf13/cast"

	member "github.com/tx7do/go-crud-member"
	"github.com/tx7do/go-crud-member/entity"
	"github.com/tx7do/go-crud-member/pagination"
	"github.com/tx7do/go-crud-member/predicate"
	"github.com/tx7do/go-crud-member/sorting"
)

const (
	reasonInvalidArgument = "INVALID_ARGUMENT"
	reasonMemberNotFound  = "MEMBER_NOT_FOUND"
)

// MemberRepo HTTP 层用到的仓储能力
type MemberRepo interface {
	FindByID(ctx context.Context, id uint) (*entity.Member, error)
	Search(ctx context.Context, cond entity.SearchCondition, orders ...sorting.Order) ([]entity.MemberTeamView, error)
	SearchPage(ctx context.Context, cond entity.SearchCondition, offset, limit int, orders ...sorting.Order) (*pagination.Page[entity.MemberTeamView], error)
	TeamAgeStats(ctx context.Context) ([]entity.TeamAgeStats, error)
	BulkAddAge(ctx context.Context, delta int, where ...predicate.Fragment) (int64, error)
}

// MemberService 成员检索接口
type MemberService struct {
	repo      MemberRepo
	converter *sorting.OrderByStringConverter
	mapper    *memberMapper
	log       *log.Helper
}

func NewMemberService(repo MemberRepo, logger log.Logger) *MemberService {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &MemberService{
		repo:      repo,
		converter: sorting.NewOrderByStringConverter(member.SortableFields),
		mapper:    newMemberMapper(),
		log:       log.NewHelper(log.With(logger, "module", "server/member")),
	}
}

// Register 注册路由
func (s *MemberService) Register(srv *khttp.Server) {
	r := srv.Route("/v1")
	r.GET("/members/search", s.SearchMembers)
	r.GET("/members/{id}", s.GetMember)
	r.PUT("/members/age", s.AddAge)
	r.GET("/teams/stats", s.TeamStats)
}

// SearchMembers GET /v1/members/search
// 带 offset 或 limit 时返回分页结构，否则返回全部匹配项。
func (s *MemberService) SearchMembers(ctx khttp.Context) error {
	query := ctx.Query()

	cond, err := parseCondition(query)
	if err != nil {
		return err
	}

	orders, err := s.converter.Convert(query.Get("orderBy"))
	if err != nil {
		return kerrors.BadRequest(reasonInvalidArgument, "invalid orderBy: "+err.Error())
	}

	if query.Has("offset") || query.Has("limit") {
		offset, err := queryInt(query, "offset")
		if err != nil {
			return err
		}
		limit, err := queryInt(query, "limit")
		if err != nil {
			return err
		}
		page, err := s.repo.SearchPage(ctx, cond, derefInt(offset), derefInt(limit), orders...)
		if err != nil {
			return s.wrapError(err)
		}
		return ctx.Result(200, page)
	}

	items, err := s.repo.Search(ctx, cond, orders...)
	if err != nil {
		return s.wrapError(err)
	}
	return ctx.Result(200, items)
}

// GetMember GET /v1/members/{id}
func (s *MemberService) GetMember(ctx khttp.Context) error {
	id, err := cast.ToUintE(ctx.Vars().Get("id"))
	if err != nil || id == 0 {
		return kerrors.BadRequest(reasonInvalidArgument, "invalid member id")
	}

	ent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.wrapError(err)
	}
	if ent == nil {
		return kerrors.NotFound(reasonMemberNotFound, "member not found")
	}
	return ctx.Result(200, s.mapper.ToReply(ent))
}

// TeamStats GET /v1/teams/stats
func (s *MemberService) TeamStats(ctx khttp.Context) error {
	stats, err := s.repo.TeamAgeStats(ctx)
	if err != nil {
		return s.wrapError(err)
	}
	return ctx.Result(200, stats)
}

// AddAge PUT /v1/members/age
func (s *MemberService) AddAge(ctx khttp.Context) error {
	var req AddAgeRequest
	if err := ctx.Bind(&req); err != nil {
		return kerrors.BadRequest(reasonInvalidArgument, "invalid body: "+err.Error())
	}

	where := []predicate.Fragment{
		member.UsernameEq(req.Username),
		member.TeamNameEq(req.TeamName),
		member.AgeBetween(req.AgeGoe, req.AgeLoe),
	}
	affected, err := s.repo.BulkAddAge(ctx, req.Delta, where...)
	if err != nil {
		return s.wrapError(err)
	}
	return ctx.Result(200, &AffectedReply{Affected: affected})
}

func (s *MemberService) wrapError(err error) error {
	switch {
	case errors.Is(err, member.ErrMissingJoin), errors.Is(err, member.ErrInvalidField):
		return kerrors.BadRequest(reasonInvalidArgument, err.Error())
	default:
		s.log.Errorf("member request failed: %s", err.Error())
		return kerrors.InternalServer("INTERNAL", "internal error")
	}
}

func parseCondition(query url.Values) (entity.SearchCondition, error) {
	cond := entity.SearchCondition{
		Username: query.Get("username"),
		TeamName: query.Get("teamName"),
	}

	var err error
	if cond.AgeGoe, err = queryInt(query, "ageGoe"); err != nil {
		return cond, err
	}
	if cond.AgeLoe, err = queryInt(query, "ageLoe"); err != nil {
		return cond, err
	}
	return cond, nil
}

// queryInt 参数缺失或为空时返回 nil
func queryInt(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return nil, kerrors.BadRequest(reasonInvalidArgument, "invalid "+key+": "+raw)
	}
	return &v, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
