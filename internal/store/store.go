package store

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/catalog-api/internal/config"
	"github.com/user/catalog-api/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a row does not exist or is soft-deleted
// and the lookup does not include trashed rows.
var ErrNotFound = errors.New("record not found")

// Store defines the database lifecycle operations the service depends on
type Store interface {
	Ping(ctx context.Context) error
	Close() error
	DB() *gorm.DB
}

// SQLStore implements Store on top of gorm
type SQLStore struct {
	db *gorm.DB
}

// Open connects to the configured database, sizes the pool and migrates the schema
func Open(cfg *config.DBConfig) (*SQLStore, error) {
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.New(stdlog.New(log.Logger, "", 0), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Path)
	case config.DriverMySQL, "":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers; one connection also keeps :memory: databases alive
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &SQLStore{db: db}, nil
}

// Migrate creates or updates the catalog tables, join tables included
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Genre{},
		&model.CastMember{},
		&model.Video{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}
