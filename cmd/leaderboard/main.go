package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vncsmyrnk/mvpvote/internal/adapters/cache"
	"github.com/vncsmyrnk/mvpvote/internal/adapters/repository/sqlstore"
	"github.com/vncsmyrnk/mvpvote/internal/config"
	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/services"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Println(err)
	}

	cfg, err := config.Parse("leaderboard", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize Repositories
	memberRepo := sqlstore.NewMemberRepository(db)
	voteRepo := sqlstore.NewVoteRepository(db)

	// Initialize Service
	resultService := services.NewResultService(memberRepo, voteRepo, cache.Nop[[]domain.Member]{}, cache.Nop[[]domain.Ballot]{})

	results, err := resultService.Leaderboard(ctx)
	if err != nil {
		log.Fatalf("Error computing leaderboard: %v", err)
	}

	if err := printLeaderboard(os.Stdout, results); err != nil {
		log.Fatal(err)
	}
}

func printLeaderboard(w io.Writer, results domain.Results) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tID\tNAME\tPOINTS\n")
	for i, row := range results.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, row.ID, row.Name, row.TotalScore)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "total votes: %d\n", results.TotalVotes)
	return err
}
