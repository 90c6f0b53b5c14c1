package ports

import (
	"context"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

type LuckyDrawRepository interface {
	Append(ctx context.Context, log *domain.DrawLog) error
	List(ctx context.Context) ([]domain.DrawLog, error)
}

type LuckyDrawService interface {
	Draw(ctx context.Context, count int) (*domain.DrawLog, error)
	Record(ctx context.Context, log domain.DrawLog) (*domain.DrawLog, error)
	History(ctx context.Context) ([]domain.DrawLog, error)
}
