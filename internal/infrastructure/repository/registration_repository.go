package repository

import (
	"context"
	"fmt"
	"time"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/database"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationRepository implements RegistrationRepository using GORM.
// Registrations are written only through WithinTransaction so that the
// session row lock is always held around the capacity check.
type RegistrationRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewRegistrationRepository creates a new GORM registration repository.
// lockTimeout bounds the wait for a session row lock; zero leaves the server default.
func NewRegistrationRepository(db *gorm.DB, lockTimeout time.Duration) interfaces.RegistrationRepository {
	return &RegistrationRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (r *RegistrationRepository) WithinTransaction(ctx context.Context, fn func(tx interfaces.RegistrationTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(&registrationTx{db: tx})
	})
	return database.TranslateError(err)
}

// Delete removes one registration and reports whether it existed
func (r *RegistrationRepository) Delete(ctx context.Context, studentID, sessionID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Delete(&domain.Registration{})
	if result.Error != nil {
		return false, database.TranslateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

const sessionsForStudentQuery = `
SELECT ls.id AS session_id, ls.session_time, ls.capacity, l.lecture_name
FROM "coursesManager".student_lecture_sessions sls
JOIN "coursesManager".lecture_sessions ls ON ls.id = sls.session_id
JOIN "coursesManager".lectures l ON l.id = ls.lecture_id
WHERE sls.student_id = ?
ORDER BY ls.session_time, ls.id`

// SessionsForStudent lists the sessions a student is registered for
func (r *RegistrationRepository) SessionsForStudent(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error) {
	views := []domain.StudentSessionView{}
	if err := r.db.WithContext(ctx).Raw(sessionsForStudentQuery, studentID).Scan(&views).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return views, nil
}

const studentsForSessionQuery = `
SELECT s.id AS student_id, s.first_name, s.last_name
FROM "coursesManager".student_lecture_sessions sls
JOIN "coursesManager".students s ON s.id = sls.student_id
WHERE sls.session_id = ?
ORDER BY s.last_name, s.first_name, s.id`

// StudentsForSession lists the students registered for a session
func (r *RegistrationRepository) StudentsForSession(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error) {
	views := []domain.SessionStudentView{}
	if err := r.db.WithContext(ctx).Raw(studentsForSessionQuery, sessionID).Scan(&views).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return views, nil
}

// registrationTx runs against the transaction handle passed by gorm
type registrationTx struct {
	db *gorm.DB
}

// LockSession issues SELECT ... FOR UPDATE on the session row
func (t *registrationTx) LockSession(ctx context.Context, sessionID int64) (*domain.LectureSession, error) {
	var session domain.LectureSession
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", sessionID).
		Limit(1).
		Find(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (t *registrationTx) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&domain.Student{}).Where("id = ?", studentID).Count(&n).Error
	return n > 0, err
}

func (t *registrationTx) CountRegistrations(ctx context.Context, sessionID int64) (int, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&domain.Registration{}).Where("session_id = ?", sessionID).Count(&n).Error
	return int(n), err
}

func (t *registrationTx) RegistrationExists(ctx context.Context, studentID, sessionID int64) (bool, error) {
	var n int64
	err := t.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Count(&n).Error
	return n > 0, err
}

// Create inserts the join row. Constraint violations come back as domain errors.
func (t *registrationTx) Create(ctx context.Context, registration *domain.Registration) error {
	err := t.db.WithContext(ctx).Create(registration).Error
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return domain.ErrDuplicateRegistration
	case database.IsForeignKeyViolation(err):
		return domain.NewNotFound("student or session", 0)
	}
	return err
}
