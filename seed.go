package member

import (
	"context"
	"fmt"

	"github.com/tx7do/go-crud-member/entity"
)

// SeedSample 写入示例数据：teamA(member1 10, member2 20)，teamB(member3 30, member4 40)
func SeedSample(ctx context.Context, r *Repository) error {
	return r.Transaction(ctx, func(ctx context.Context, repo *Repository) error {
		teamA := &entity.Team{Name: "teamA"}
		teamB := &entity.Team{Name: "teamB"}
		for _, t := range []*entity.Team{teamA, teamB} {
			if err := repo.SaveTeam(ctx, t); err != nil {
				return fmt.Errorf("seed team %s: %w", t.Name, err)
			}
		}

		members := []*entity.Member{
			entity.NewMember("member1", 10, teamA),
			entity.NewMember("member2", 20, teamA),
			entity.NewMember("member3", 30, teamB),
			entity.NewMember("member4", 40, teamB),
		}
		for _, m := range members {
			if err := repo.Save(ctx, m); err != nil {
				return fmt.Errorf("seed member %s: %w", m.GetUsername(), err)
			}
		}
		return nil
	})
}
