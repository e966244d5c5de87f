package database

import (
	"context"
	"fmt"
	"time"

	"estoque-backend/internal/config"
	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database backend selected in cfg.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case config.BackendSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("backend %q não usa banco de dados", cfg.StoreBackend)
	}
	return open(dialector, cfg.DBLogLevel)
}

func open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("não foi possível conectar ao banco de dados: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("banco de dados não responde: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables and seeds the default branch when
// none exists.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.Branch{},
		&models.Product{},
		&models.User{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	var count int64
	if err := db.Model(&models.Branch{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&models.Branch{Name: inventory.DefaultBranch}).Error; err != nil {
			return fmt.Errorf("filial padrão não criada: %w", err)
		}
		log.Info("default branch created", zap.String("branch", inventory.DefaultBranch))
	}

	log.Info("database migrated")
	return nil
}
