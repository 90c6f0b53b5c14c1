package ports

import (
	"context"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

// RecentLogLimit bounds the unfiltered vote log listing.
const RecentLogLimit = 100

type VoteRepository interface {
	// SaveBallot stores the ballot and its log entries in one transaction.
	SaveBallot(ctx context.Context, ballot *domain.Ballot, logs []domain.LogEntry) error
	ListBallots(ctx context.Context) ([]domain.Ballot, error)
	CountBallots(ctx context.Context) (int, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error)
	LogsByVote(ctx context.Context, voteID string) ([]domain.LogEntry, error)
	// Reset removes every ballot and log entry in one transaction.
	Reset(ctx context.Context) error
}

type SubmitBallotInput struct {
	VoterName string
	Scores    domain.Scores
}

type VoteService interface {
	Submit(ctx context.Context, input SubmitBallotInput) (*domain.Ballot, error)
	List(ctx context.Context) ([]domain.Ballot, error)
	Count(ctx context.Context) (int, error)
	Logs(ctx context.Context, voteID string) ([]domain.LogEntry, error)
	Reset(ctx context.Context) error
}
