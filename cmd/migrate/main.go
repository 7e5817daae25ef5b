package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bioweb/backend/internal/config"
	"github.com/bioweb/backend/internal/logging"
	"github.com/bioweb/backend/internal/migration"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   差分マイグレーションを適用
  reset       全テーブルを DROP し、集約スキーマで再作成
  fresh       全テーブルを DROP し、全マイグレーションを順番に適用
  status      適用済み / 未適用のマイグレーションを表示`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load configuration", "error", err)
	}
	logging.Setup(cfg.Logging.Level)

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	runner := migration.New(pool, migrations.FS)

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		if _, err := runner.Incremental(ctx); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
	case "reset":
		if err := runner.DropAll(ctx); err != nil {
			logging.Fatal("drop all failed", "error", err)
		}
		if _, err := runner.Consolidated(ctx); err != nil {
			logging.Fatal("consolidated apply failed", "error", err)
		}
	case "fresh":
		if err := runner.DropAll(ctx); err != nil {
			logging.Fatal("drop all failed", "error", err)
		}
		if _, err := runner.Incremental(ctx); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
	case "status":
		pending, err := runner.Pending(ctx)
		if err != nil {
			logging.Fatal("status failed", "error", err)
		}
		if len(pending) == 0 {
			fmt.Println("all migrations applied")
			return
		}
		for _, name := range pending {
			fmt.Println("pending:", name)
		}
	default:
		usage()
	}
}
