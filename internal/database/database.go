package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open connects to the store described by cfg. The caller owns the handle
// and releases it with Close.
func Open(cfg config.DatabaseConfig, log *logrus.Entry) (*gorm.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(log, cfg.Debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One connection: SQLite has a single writer and every
		// connection to :memory: would otherwise see its own database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.WithField("driver", cfg.Driver).Info("Database connection established")
	return db, nil
}

// OpenMemory opens a private in-memory SQLite store
func OpenMemory(log *logrus.Entry) (*gorm.DB, error) {
	return Open(config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}, log)
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store path is empty")
		}
		return sqlite.Open(SQLiteDSN(cfg.Path)), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres requires DB_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mysql requires DB_DSN")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN adds the connection options every SQLite store needs. Foreign
// keys are off by default in SQLite and cascades depend on them.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
