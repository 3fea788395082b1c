package interfaces

import (
	"context"

	domain "lecture-manager/internal/domain/registration"
)

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type LectureRepository interface {
	Create(ctx context.Context, lecture *domain.Lecture) error
	GetByID(ctx context.Context, id int64) (*domain.Lecture, error)
	List(ctx context.Context) ([]*domain.Lecture, error)
	Update(ctx context.Context, lecture *domain.Lecture) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.LectureSession) error
	GetByID(ctx context.Context, id int64) (*domain.LectureSession, error)
	List(ctx context.Context) ([]*domain.LectureSession, error)
	Update(ctx context.Context, session *domain.LectureSession) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountRegistrations(ctx context.Context, sessionID int64) (int, error)
}

// RegistrationTx is the set of operations available inside one registration
// transaction. Implementations must hold the lock taken by LockSession until
// the enclosing transaction ends.
type RegistrationTx interface {
	// LockSession takes an exclusive lock on the session row. It returns
	// (nil, nil) when the session does not exist.
	LockSession(ctx context.Context, sessionID int64) (*domain.LectureSession, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
	CountRegistrations(ctx context.Context, sessionID int64) (int, error)
	RegistrationExists(ctx context.Context, studentID, sessionID int64) (bool, error)
	Create(ctx context.Context, registration *domain.Registration) error
}

type RegistrationRepository interface {
	// WithinTransaction runs fn in a single transaction. A non-nil error from
	// fn rolls back everything fn did.
	WithinTransaction(ctx context.Context, fn func(tx RegistrationTx) error) error
	Delete(ctx context.Context, studentID, sessionID int64) (bool, error)
	SessionsForStudent(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error)
	StudentsForSession(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error)
}

// StatsRepository runs the read-only aggregate queries
type StatsRepository interface {
	SessionStats(ctx context.Context) ([]domain.SessionStat, error)
	FullSessions(ctx context.Context) ([]domain.FullSession, error)
	StudentStats(ctx context.Context) ([]domain.StudentStat, error)
}

// Store bundles every repository backed by one relational store
type Store struct {
	Students      StudentRepository
	Lectures      LectureRepository
	Sessions      SessionRepository
	Registrations RegistrationRepository
	Stats         StatsRepository
	Ping          func(ctx context.Context) error
	Close         func() error
}
