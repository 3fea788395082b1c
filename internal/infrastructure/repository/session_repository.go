package repository

import (
	"context"
	"errors"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository implements SessionRepository using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new GORM session repository
func NewSessionRepository(db *gorm.DB) interfaces.SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create inserts the session row only; the Lecture association is never upserted
func (r *SessionRepository) Create(ctx context.Context, session *domain.LectureSession) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
	if database.IsForeignKeyViolation(err) {
		return domain.NewNotFound("lecture", session.LectureID)
	}
	if database.IsCheckViolation(err) {
		return domain.NewValidationError("capacity must be greater than 0")
	}
	return database.TranslateError(err)
}

// GetByID retrieves a session with its lecture
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*domain.LectureSession, error) {
	var session domain.LectureSession
	err := r.db.WithContext(ctx).Preload("Lecture").Take(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateError(err)
	}
	return &session, nil
}

func (r *SessionRepository) List(ctx context.Context) ([]*domain.LectureSession, error) {
	var sessions []*domain.LectureSession
	if err := r.db.WithContext(ctx).Preload("Lecture").Order("id").Find(&sessions).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.LectureSession) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error
	if database.IsForeignKeyViolation(err) {
		return domain.NewNotFound("lecture", session.LectureID)
	}
	if database.IsCheckViolation(err) {
		return domain.NewValidationError("capacity must be greater than 0")
	}
	return database.TranslateError(err)
}

func (r *SessionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.LectureSession{}, id)
	if result.Error != nil {
		return false, database.TranslateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountRegistrations returns the committed registration count without locking
func (r *SessionRepository) CountRegistrations(ctx context.Context, sessionID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	if err != nil {
		return 0, database.TranslateError(err)
	}
	return int(n), nil
}
