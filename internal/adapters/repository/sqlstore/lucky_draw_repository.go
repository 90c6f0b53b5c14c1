package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type luckyDrawRepository struct {
	db *sql.DB
}

func NewLuckyDrawRepository(db *sql.DB) ports.LuckyDrawRepository {
	return &luckyDrawRepository{db: db}
}

// Append stores the entry with its winners encoded as JSON.
func (r *luckyDrawRepository) Append(ctx context.Context, entry *domain.DrawLog) error {
	winners, err := json.Marshal(entry.Winners)
	if err != nil {
		return fmt.Errorf("failed to encode winners: %w", err)
	}

	query := `
		INSERT INTO lucky_draw_logs (draw_id, created_at, winners, draw_count, seq)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(seq), 0) + 1 FROM lucky_draw_logs))
	`
	_, err = r.db.ExecContext(ctx, query, entry.DrawID, formatTime(entry.Timestamp), string(winners), entry.DrawCount)
	if err != nil {
		return storageError("save lucky draw log", err)
	}
	return nil
}

// List returns the full history, most recent first.
func (r *luckyDrawRepository) List(ctx context.Context) ([]domain.DrawLog, error) {
	query := `SELECT draw_id, created_at, winners, draw_count FROM lucky_draw_logs ORDER BY seq DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError("list lucky draw logs", err)
	}
	defer rows.Close()

	logs := []domain.DrawLog{}
	for rows.Next() {
		var (
			l         domain.DrawLog
			createdAt string
			winners   string
		)
		if err := rows.Scan(&l.DrawID, &createdAt, &winners, &l.DrawCount); err != nil {
			return nil, storageError("scan lucky draw log", err)
		}
		if l.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, storageError("scan lucky draw log", err)
		}
		if err := json.Unmarshal([]byte(winners), &l.Winners); err != nil {
			return nil, storageError("decode lucky draw winners", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list lucky draw logs", err)
	}

	return logs, nil
}
