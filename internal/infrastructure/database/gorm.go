package database

import (
	"context"
	"fmt"
	"time"

	"lecture-manager/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s connect_timeout=10",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func NewConnection(config Config) (*gorm.DB, error) {
	logger.Debug("Connecting to postgres at %s:%d/%s (user=%s, sslmode=%s)",
		config.Host, config.Port, config.DBName, config.User, config.SSLMode)

	level := gormlogger.Warn
	if config.LogSQL {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger: gormlogger.New(logger.GetLogger(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// The pool is the only bound on concurrent in-flight statements
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	logger.Info("Running SQL migrations...")

	migrationRunner := NewMigrationRunner(db, migrationFiles, "migrations")
	applied, err := migrationRunner.RunMigrations()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed successfully (%d applied)", applied)
	return nil
}

func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
