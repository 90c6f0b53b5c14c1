package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

// seq keeps members in insertion order on both dialects.
const insertMemberQuery = `
	INSERT INTO members (id, name, photo, seq)
	VALUES ($1, $2, $3, (SELECT COALESCE(MAX(seq), 0) + 1 FROM members))
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) ports.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	return insertMember(ctx, r.db, member)
}

// CreateMany inserts every member or none of them.
func (r *memberRepository) CreateMany(ctx context.Context, members []domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin member import", err)
	}
	defer tx.Rollback()

	for i := range members {
		if err := insertMember(ctx, tx, &members[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit member import", err)
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT id, name, photo FROM members ORDER BY seq, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError("list members", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var (
			m     domain.Member
			photo sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &photo); err != nil {
			return nil, storageError("scan member", err)
		}
		if photo.Valid {
			m.Photo = &photo.String
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list members", err)
	}

	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `UPDATE members SET name = $1, photo = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, member.Name, nullableString(member.Photo), member.ID)
	if err != nil {
		return storageError("update member", err)
	}
	return expectAffected(res, member.ID)
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM members WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storageError("delete member", err)
	}
	return expectAffected(res, id)
}

func insertMember(ctx context.Context, db execer, member *domain.Member) error {
	_, err := db.ExecContext(ctx, insertMemberQuery, member.ID, member.Name, nullableString(member.Photo))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrMemberExists, member.ID)
		}
		return storageError("save member", err)
	}
	return nil
}

func expectAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrMemberNotFound, id)
	}
	return nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
