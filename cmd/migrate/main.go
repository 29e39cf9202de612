package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"learn-assist/internal/config"
	"learn-assist/internal/database"
	"learn-assist/internal/logger"

	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [up | down [N] [--all]]")
	}
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver); err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err))
		}
		fmt.Println("Migrations applied successfully!")
	case "down":
		steps := 1
		for _, arg := range flag.Args()[1:] {
			if arg == "--all" || arg == "-all" {
				steps = 0
				break
			}
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				l.Fatal("Invalid step count", zap.String("steps", arg))
			}
			steps = n
		}
		if err := database.RollbackMigrations(ctx, db.DB, cfg.DB.Driver, steps); err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		if steps == 0 {
			fmt.Println("Successfully rolled back all migrations")
		} else {
			fmt.Printf("Successfully rolled back %d migration(s)\n", steps)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
