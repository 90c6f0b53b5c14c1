package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

const adminSubject = "admin"

type AdminConfig struct {
	JWTSecret       []byte
	DefaultPassword string
	SessionTTL      time.Duration
}

type adminService struct {
	repo            ports.AdminRepository
	jwtSecret       []byte
	defaultPassword string
	sessionTTL      time.Duration
	now             func() time.Time
}

func NewAdminService(repo ports.AdminRepository, cfg AdminConfig) ports.AdminService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &adminService{
		repo:            repo,
		jwtSecret:       cfg.JWTSecret,
		defaultPassword: cfg.DefaultPassword,
		sessionTTL:      ttl,
		now:             time.Now,
	}
}

// EnsurePassword seeds the default password when none is stored.
func (s *adminService) EnsurePassword(ctx context.Context) error {
	stored, err := s.repo.GetPassword(ctx)
	if err != nil {
		return err
	}
	if stored.Hash != "" || s.defaultPassword == "" {
		return nil
	}

	hash, err := domain.HashPassword(s.defaultPassword)
	if err != nil {
		return fmt.Errorf("invalid default admin password: %w", err)
	}
	if err := s.repo.SetPassword(ctx, ports.AdminPassword{Hash: hash, IsDefault: true}); err != nil {
		return err
	}

	slog.Warn("admin password seeded with the default value, change it from the config page")
	return nil
}

func (s *adminService) Status(ctx context.Context) (domain.AdminStatus, error) {
	stored, err := s.repo.GetPassword(ctx)
	if err != nil {
		return domain.AdminStatus{}, err
	}
	return domain.AdminStatus{
		Exists:    stored.Hash != "",
		IsDefault: stored.Hash != "" && stored.IsDefault,
	}, nil
}

func (s *adminService) Verify(ctx context.Context, password string) (string, bool, error) {
	if password == "" {
		return "", false, domain.ErrPasswordRequired
	}

	stored, err := s.repo.GetPassword(ctx)
	if err != nil {
		return "", false, err
	}
	if !domain.CheckPassword(stored.Hash, password) {
		return "", false, nil
	}

	token, err := s.generateToken()
	if err != nil {
		return "", false, fmt.Errorf("failed to generate admin token: %w", err)
	}
	return token, true, nil
}

// ResetPassword replaces the stored password. The current password must match
// when one is set, unless the caller is already authorized.
func (s *adminService) ResetPassword(ctx context.Context, input ports.ResetPasswordInput) error {
	newHash, err := domain.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	current, err := s.repo.GetPassword(ctx)
	if err != nil {
		return err
	}
	if current.Hash != "" && !input.Authorized && !domain.CheckPassword(current.Hash, input.CurrentPassword) {
		return domain.ErrWrongPassword
	}

	next := ports.AdminPassword{
		Hash:      newHash,
		IsDefault: s.defaultPassword != "" && input.NewPassword == s.defaultPassword,
	}
	if err := s.repo.SetPassword(ctx, next); err != nil {
		return err
	}

	slog.Info("admin password updated", "authorized_session", input.Authorized)
	return nil
}

func (s *adminService) Authorize(tokenString string) error {
	if tokenString == "" {
		return domain.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *adminService) generateToken() (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"exp": now.Add(s.sessionTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
