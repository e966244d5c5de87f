package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estoque-backend/internal/audit"
	"estoque-backend/internal/auth"
	"estoque-backend/internal/config"
	"estoque-backend/internal/database"
	"estoque-backend/internal/inventory"
	"estoque-backend/internal/logger"
	"estoque-backend/internal/router"
	"estoque-backend/internal/workbook"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuração inválida: %v", err)
	}

	zlog, err := logger.New(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "estoque-backend",
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	for _, w := range cfg.Warnings {
		zlog.Warn(w)
	}

	deps := router.Deps{Config: cfg, Log: zlog}

	if cfg.StoreBackend == config.BackendWorkbook {
		store := workbook.NewStore(cfg.WorkbookPath, zlog.Named("workbook"))
		deps.Inventory = inventory.NewService(store, audit.LogRecorder{Log: zlog.Named("audit")}, zlog)
		zlog.Info("using workbook backend", zap.String("path", cfg.WorkbookPath))
	} else {
		db, err := database.Open(cfg)
		if err != nil {
			zlog.Fatal("database connection failed", zap.Error(err))
		}
		if err := database.Migrate(db, zlog); err != nil {
			zlog.Fatal("database migration failed", zap.Error(err))
		}

		deps.Users = auth.NewUserRepository(db)
		created, err := deps.Users.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			zlog.Fatal("seeding admin failed", zap.Error(err))
		}
		if created {
			zlog.Info("default admin created", zap.String("username", cfg.AdminUsername))
		}

		deps.AuditLogs = audit.NewStore(db)
		deps.Inventory = inventory.NewService(database.NewStore(db), deps.AuditLogs, zlog)
		zlog.Info("using database backend", zap.String("backend", cfg.StoreBackend))
	}

	app := router.New(deps)

	go func() {
		addr := ":" + cfg.HTTPPort
		zlog.Info("server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}
