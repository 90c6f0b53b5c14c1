package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/mvpvote/internal/adapters/cache"
	handler "github.com/vncsmyrnk/mvpvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/mvpvote/internal/adapters/repository/sqlstore"
	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sqlstore.Open(ctx, sqlstore.DriverPostgres, dbURL)
	require.NoError(t, err)

	err = sqlstore.Migrate(ctx, db, sqlstore.DriverPostgres)
	require.NoError(t, err)

	memberRepo := sqlstore.NewMemberRepository(db)
	voteRepo := sqlstore.NewVoteRepository(db)
	drawRepo := sqlstore.NewLuckyDrawRepository(db)
	adminRepo := sqlstore.NewAdminRepository(db)

	members := cache.NewMemory[[]domain.Member](time.Minute)
	ballots := cache.NewMemory[[]domain.Ballot](time.Minute)

	adminSvc := services.NewAdminService(adminRepo, services.AdminConfig{
		JWTSecret:       []byte("test-secret"),
		DefaultPassword: "0909",
		SessionTTL:      time.Hour,
	})
	require.NoError(t, adminSvc.EnsurePassword(ctx))

	router := handler.NewHandler(
		handler.NewMemberHandler(services.NewMemberService(memberRepo, members)),
		handler.NewVoteHandler(services.NewVoteService(memberRepo, voteRepo, members, ballots)),
		handler.NewResultHandler(services.NewResultService(memberRepo, voteRepo, members, ballots)),
		handler.NewLuckyDrawHandler(services.NewLuckyDrawService(memberRepo, drawRepo, members)),
		handler.NewAdminHandler(adminSvc, time.Hour, false),
		handler.NewHealthHandler(db),
		[]string{"*"},
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
