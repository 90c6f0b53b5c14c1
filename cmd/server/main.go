package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vncsmyrnk/mvpvote/internal/adapters/cache"
	"github.com/vncsmyrnk/mvpvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/mvpvote/internal/adapters/repository/sqlstore"
	"github.com/vncsmyrnk/mvpvote/internal/config"
	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Parse("server", os.Args[1:])
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.JWTSecretGenerated {
		slog.Warn("JWT_SECRET not set, admin sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		return err
	}
	slog.Info("database schema ready", "driver", cfg.DatabaseDriver)

	// Initialize Repositories
	memberRepo := sqlstore.NewMemberRepository(db)
	voteRepo := sqlstore.NewVoteRepository(db)
	drawRepo := sqlstore.NewLuckyDrawRepository(db)
	adminRepo := sqlstore.NewAdminRepository(db)

	members := cache.NewMemory[[]domain.Member](cfg.CacheTTL)
	ballots := cache.NewMemory[[]domain.Ballot](cfg.CacheTTL)

	// Initialize Services
	memberService := services.NewMemberService(memberRepo, members)
	voteService := services.NewVoteService(memberRepo, voteRepo, members, ballots)
	resultService := services.NewResultService(memberRepo, voteRepo, members, ballots)
	luckyDrawService := services.NewLuckyDrawService(memberRepo, drawRepo, members)
	adminService := services.NewAdminService(adminRepo, services.AdminConfig{
		JWTSecret:       []byte(cfg.JWTSecret),
		DefaultPassword: cfg.AdminDefaultPassword,
		SessionTTL:      cfg.SessionTTL,
	})

	if err := adminService.EnsurePassword(ctx); err != nil {
		return err
	}

	handler := http.NewHandler(
		http.NewMemberHandler(memberService),
		http.NewVoteHandler(voteService),
		http.NewResultHandler(resultService),
		http.NewLuckyDrawHandler(luckyDrawService),
		http.NewAdminHandler(adminService, cfg.SessionTTL, cfg.SecureCookies),
		http.NewHealthHandler(db),
		cfg.AllowedOrigins,
	)
	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
