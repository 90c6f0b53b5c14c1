package ports

import (
	"context"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

type ResultService interface {
	Leaderboard(ctx context.Context) (domain.Results, error)
}

// Cache holds one snapshot of T. Writers call Invalidate after every change
// to the underlying data. Readers pass the generation returned by Get to Set,
// which drops values loaded before the latest Invalidate.
type Cache[T any] interface {
	Get() (value T, generation uint64, ok bool)
	Set(value T, generation uint64) bool
	Invalidate()
}
