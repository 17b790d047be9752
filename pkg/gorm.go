package pkg

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/interview-session-service/internal/config"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "interview_history.db"

// InitDatabase opens the attempt history store. Postgres URLs go to the
// postgres driver; anything else is treated as a sqlite path so the service
// runs without external infrastructure.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(dialector(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.AttemptRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func dialector(url string) gorm.Dialector {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return postgres.Open(url)
	}
	if url == "" {
		url = defaultSQLitePath
	}
	return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
}

// CloseDatabase releases the underlying connection pool
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
