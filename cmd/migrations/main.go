package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vncsmyrnk/mvpvote/internal/adapters/repository/sqlstore"
	"github.com/vncsmyrnk/mvpvote/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Parse("migrations", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	files, err := sqlstore.MigrationFiles(cfg.DatabaseDriver)
	if err != nil {
		log.Fatal(err)
	}

	if err := sqlstore.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	for _, name := range files {
		fmt.Printf("applied %s\n", name)
	}
	fmt.Println("Migration files executed successfully.")
}
