package sqlstore

import (
	"context"
	"database/sql"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) SaveBallot(ctx context.Context, ballot *domain.Ballot, logs []domain.LogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin ballot", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO ballots (id, voter_name, created_at) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, ballot.ID, ballot.VoterName, formatTime(ballot.Timestamp)); err != nil {
		return storageError("save ballot", err)
	}

	query = `INSERT INTO ballot_scores (ballot_id, position, member_id, points) VALUES ($1, $2, $3, $4)`
	for i, e := range ballot.Scores {
		if _, err := tx.ExecContext(ctx, query, ballot.ID, i, e.MemberID, e.Points); err != nil {
			return storageError("save ballot score", err)
		}
	}

	query = `
		INSERT INTO vote_logs (vote_id, position, voter_name, member_id, member_name, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, l := range logs {
		_, err := tx.ExecContext(ctx, query, l.VoteID, i, l.VoterName, l.MemberID, l.MemberName, l.Score, formatTime(l.Timestamp))
		if err != nil {
			return storageError("save vote log", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit ballot", err)
	}
	return nil
}

// ListBallots returns every ballot in submission order with its scores in
// the order they were submitted.
func (r *voteRepository) ListBallots(ctx context.Context) ([]domain.Ballot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, voter_name, created_at FROM ballots ORDER BY created_at, id`)
	if err != nil {
		return nil, storageError("list ballots", err)
	}
	defer rows.Close()

	ballots := []domain.Ballot{}
	index := map[string]int{}
	for rows.Next() {
		var (
			b         domain.Ballot
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.VoterName, &createdAt); err != nil {
			return nil, storageError("scan ballot", err)
		}
		if b.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, storageError("scan ballot", err)
		}
		b.Scores = domain.Scores{}
		index[b.ID] = len(ballots)
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list ballots", err)
	}
	rows.Close()

	scoreRows, err := r.db.QueryContext(ctx, `SELECT ballot_id, member_id, points FROM ballot_scores ORDER BY ballot_id, position`)
	if err != nil {
		return nil, storageError("list ballot scores", err)
	}
	defer scoreRows.Close()

	for scoreRows.Next() {
		var (
			ballotID string
			e        domain.ScoreEntry
		)
		if err := scoreRows.Scan(&ballotID, &e.MemberID, &e.Points); err != nil {
			return nil, storageError("scan ballot score", err)
		}
		i, ok := index[ballotID]
		if !ok {
			continue
		}
		ballots[i].Scores = append(ballots[i].Scores, e)
	}
	if err := scoreRows.Err(); err != nil {
		return nil, storageError("list ballot scores", err)
	}

	return ballots, nil
}

func (r *voteRepository) CountBallots(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballots`).Scan(&count); err != nil {
		return 0, storageError("count ballots", err)
	}
	return count, nil
}

func (r *voteRepository) RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	query := `
		SELECT vote_id, voter_name, member_id, member_name, score, created_at
		FROM vote_logs
		ORDER BY created_at DESC, vote_id DESC, position DESC
		LIMIT $1
	`
	return r.queryLogs(ctx, query, limit)
}

func (r *voteRepository) LogsByVote(ctx context.Context, voteID string) ([]domain.LogEntry, error) {
	query := `
		SELECT vote_id, voter_name, member_id, member_name, score, created_at
		FROM vote_logs
		WHERE vote_id = $1
		ORDER BY position
	`
	return r.queryLogs(ctx, query, voteID)
}

func (r *voteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin reset", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"vote_logs", "ballot_scores", "ballots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return storageError("clear "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit reset", err)
	}
	return nil
}

func (r *voteRepository) queryLogs(ctx context.Context, query string, args ...any) ([]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("list vote logs", err)
	}
	defer rows.Close()

	logs := []domain.LogEntry{}
	for rows.Next() {
		var (
			l         domain.LogEntry
			createdAt string
		)
		if err := rows.Scan(&l.VoteID, &l.VoterName, &l.MemberID, &l.MemberName, &l.Score, &createdAt); err != nil {
			return nil, storageError("scan vote log", err)
		}
		if l.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, storageError("scan vote log", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list vote logs", err)
	}

	return logs, nil
}
