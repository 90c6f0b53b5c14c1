package ports

import (
	"context"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
)

// AdminPassword is the stored admin credential. IsDefault is recorded when the
// password is written so reads never need to hash anything.
type AdminPassword struct {
	Hash      string
	IsDefault bool
}

type AdminRepository interface {
	// GetPassword returns a zero AdminPassword when no password has been set.
	GetPassword(ctx context.Context) (AdminPassword, error)
	SetPassword(ctx context.Context, password AdminPassword) error
}

type ResetPasswordInput struct {
	CurrentPassword string
	NewPassword     string
	// Authorized is set when the caller already holds a valid admin session.
	Authorized bool
}

type AdminService interface {
	EnsurePassword(ctx context.Context) error
	Status(ctx context.Context) (domain.AdminStatus, error)
	Verify(ctx context.Context, password string) (token string, valid bool, err error)
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	Authorize(token string) error
}
