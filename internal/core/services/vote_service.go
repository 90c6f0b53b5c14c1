package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type voteService struct {
	memberRepo ports.MemberRepository
	voteRepo   ports.VoteRepository
	members    ports.Cache[[]domain.Member]
	ballots    ports.Cache[[]domain.Ballot]
	now        func() time.Time
}

func NewVoteService(
	memberRepo ports.MemberRepository,
	voteRepo ports.VoteRepository,
	members ports.Cache[[]domain.Member],
	ballots ports.Cache[[]domain.Ballot],
) ports.VoteService {
	return &voteService{
		memberRepo: memberRepo,
		voteRepo:   voteRepo,
		members:    members,
		ballots:    ballots,
		now:        time.Now,
	}
}

func (s *voteService) Submit(ctx context.Context, input ports.SubmitBallotInput) (*domain.Ballot, error) {
	voterName := strings.TrimSpace(input.VoterName)
	if err := domain.ValidateBallot(voterName, input.Scores); err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, s.memberRepo, s.members)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ballot id: %w", err)
	}

	ballot := &domain.Ballot{
		ID:        id.String(),
		VoterName: voterName,
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
		Scores:    input.Scores,
	}
	logs := domain.DeriveLogEntries(*ballot, members)

	if err := s.voteRepo.SaveBallot(ctx, ballot, logs); err != nil {
		return nil, err
	}
	s.ballots.Invalidate()

	slog.Info("ballot submitted", "ballot_id", ballot.ID, "points", ballot.Scores.Total(), "log_entries", len(logs))

	return ballot, nil
}

func (s *voteService) List(ctx context.Context) ([]domain.Ballot, error) {
	return loadBallots(ctx, s.voteRepo, s.ballots)
}

func (s *voteService) Count(ctx context.Context) (int, error) {
	if ballots, _, ok := s.ballots.Get(); ok {
		return len(ballots), nil
	}
	return s.voteRepo.CountBallots(ctx)
}

// Logs returns the entries of one ballot in score order, or the most recent
// entries first when voteID is empty.
func (s *voteService) Logs(ctx context.Context, voteID string) ([]domain.LogEntry, error) {
	voteID = strings.TrimSpace(voteID)
	if voteID == "" {
		return s.voteRepo.RecentLogs(ctx, ports.RecentLogLimit)
	}
	return s.voteRepo.LogsByVote(ctx, voteID)
}

func (s *voteService) Reset(ctx context.Context) error {
	if err := s.voteRepo.Reset(ctx); err != nil {
		return err
	}
	s.ballots.Invalidate()

	slog.Info("votes reset")

	return nil
}

func loadBallots(ctx context.Context, repo ports.VoteRepository, cache ports.Cache[[]domain.Ballot]) ([]domain.Ballot, error) {
	ballots, gen, ok := cache.Get()
	if ok {
		return ballots, nil
	}

	ballots, err := repo.ListBallots(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(ballots, gen)

	return ballots, nil
}
