package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type luckyDrawService struct {
	memberRepo ports.MemberRepository
	drawRepo   ports.LuckyDrawRepository
	members    ports.Cache[[]domain.Member]
	intn       func(n int) int
	now        func() time.Time
}

func NewLuckyDrawService(
	memberRepo ports.MemberRepository,
	drawRepo ports.LuckyDrawRepository,
	members ports.Cache[[]domain.Member],
) ports.LuckyDrawService {
	return &luckyDrawService{
		memberRepo: memberRepo,
		drawRepo:   drawRepo,
		members:    members,
		intn:       rand.IntN,
		now:        time.Now,
	}
}

func (s *luckyDrawService) Draw(ctx context.Context, count int) (*domain.DrawLog, error) {
	members, err := loadMembers(ctx, s.memberRepo, s.members)
	if err != nil {
		return nil, err
	}

	winners, err := domain.Draw(members, count, s.intn)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate draw id: %w", err)
	}

	entry := &domain.DrawLog{
		DrawID:    id.String(),
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
		Winners:   winners,
		DrawCount: len(winners),
	}
	if err := s.drawRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	slog.Info("lucky draw recorded", "draw_id", entry.DrawID, "winners", entry.DrawCount)

	return entry, nil
}

// Record stores a draw performed by the client.
func (s *luckyDrawService) Record(ctx context.Context, entry domain.DrawLog) (*domain.DrawLog, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.Timestamp = entry.Timestamp.UTC().Truncate(time.Millisecond)

	if err := s.drawRepo.Append(ctx, &entry); err != nil {
		return nil, err
	}

	slog.Info("lucky draw recorded", "draw_id", entry.DrawID, "winners", entry.DrawCount)

	return &entry, nil
}

func (s *luckyDrawService) History(ctx context.Context) ([]domain.DrawLog, error) {
	return s.drawRepo.List(ctx)
}
