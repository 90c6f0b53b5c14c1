package sqlstore

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

const (
	adminPasswordKey        = "admin_password"
	adminPasswordDefaultKey = "admin_password_default"
)

const upsertSettingQuery = `
	INSERT INTO admin_settings (name, value) VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET value = excluded.value
`

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) ports.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetPassword(ctx context.Context) (ports.AdminPassword, error) {
	query := `SELECT name, value FROM admin_settings WHERE name IN ($1, $2)`
	rows, err := r.db.QueryContext(ctx, query, adminPasswordKey, adminPasswordDefaultKey)
	if err != nil {
		return ports.AdminPassword{}, storageError("read admin password", err)
	}
	defer rows.Close()

	var password ports.AdminPassword
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return ports.AdminPassword{}, storageError("scan admin setting", err)
		}
		switch name {
		case adminPasswordKey:
			password.Hash = value
		case adminPasswordDefaultKey:
			// A malformed flag reads as false.
			password.IsDefault, _ = strconv.ParseBool(value)
		}
	}
	if err := rows.Err(); err != nil {
		return ports.AdminPassword{}, storageError("read admin password", err)
	}
	return password, nil
}

// SetPassword stores the hash and its default flag together.
func (r *adminRepository) SetPassword(ctx context.Context, password ports.AdminPassword) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin admin password update", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertSettingQuery, adminPasswordKey, password.Hash); err != nil {
		return storageError("save admin password", err)
	}
	if _, err := tx.ExecContext(ctx, upsertSettingQuery, adminPasswordDefaultKey, strconv.FormatBool(password.IsDefault)); err != nil {
		return storageError("save admin password flag", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit admin password update", err)
	}
	return nil
}
