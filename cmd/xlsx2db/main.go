// xlsx2db copies the branches and products of an estoque.xlsx workbook into
// the database configured by STORE_BACKEND (postgres or sqlite).
//
// Usage: go run ./cmd/xlsx2db -workbook estoque.xlsx
package main

import (
	"context"
	"flag"
	"log"

	"estoque-backend/internal/config"
	"estoque-backend/internal/database"
	"estoque-backend/internal/inventory"
	"estoque-backend/internal/logger"
	"estoque-backend/internal/workbook"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuração inválida: %v", err)
	}

	path := flag.String("workbook", cfg.WorkbookPath, "planilha de origem")
	flag.Parse()

	zlog, err := logger.New(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "xlsx2db",
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.AuthEnabled() {
		zlog.Fatal("STORE_BACKEND must be postgres or sqlite")
	}

	db, err := database.Open(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	src := workbook.NewStore(*path, zlog.Named("workbook"))
	res, err := inventory.CopyStore(context.Background(), src, database.NewStore(db))
	if err != nil {
		zlog.Fatal("copy failed", zap.Error(err))
	}

	zlog.Info("workbook copied",
		zap.String("workbook", *path),
		zap.Int("branches_created", res.BranchesCreated),
		zap.Int("products_copied", res.ProductsCopied))
}
