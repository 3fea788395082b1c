package repository

import (
	"context"
	"fmt"
	"time"

	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// NewPostgresStore wires every repository onto one gorm connection. The stats
// repository shares the same pool through sqlx.
func NewPostgresStore(db *gorm.DB, lockTimeout time.Duration) (*interfaces.Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	return &interfaces.Store{
		Students:      NewStudentRepository(db),
		Lectures:      NewLectureRepository(db),
		Sessions:      NewSessionRepository(db),
		Registrations: NewRegistrationRepository(db, lockTimeout),
		Stats:         NewStatsRepository(sqlx.NewDb(sqlDB, "pgx")),
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
		Close: func() error {
			return database.Close(db)
		},
	}, nil
}
