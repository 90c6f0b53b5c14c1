package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type resultService struct {
	memberRepo ports.MemberRepository
	voteRepo   ports.VoteRepository
	members    ports.Cache[[]domain.Member]
	ballots    ports.Cache[[]domain.Ballot]
}

func NewResultService(
	memberRepo ports.MemberRepository,
	voteRepo ports.VoteRepository,
	members ports.Cache[[]domain.Member],
	ballots ports.Cache[[]domain.Ballot],
) ports.ResultService {
	return &resultService{
		memberRepo: memberRepo,
		voteRepo:   voteRepo,
		members:    members,
		ballots:    ballots,
	}
}

// Leaderboard loads both snapshots concurrently and aggregates them.
func (s *resultService) Leaderboard(ctx context.Context) (domain.Results, error) {
	var (
		members []domain.Member
		ballots []domain.Ballot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = loadMembers(gctx, s.memberRepo, s.members)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ballots, err = loadBallots(gctx, s.voteRepo, s.ballots)
		if err != nil {
			return fmt.Errorf("failed to load ballots: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Results{}, err
	}

	return domain.Aggregate(members, ballots), nil
}
