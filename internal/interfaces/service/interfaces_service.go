package interfaces

import (
	"context"

	domain "lecture-manager/internal/domain/registration"
)

type RegistrationService interface {
	Register(ctx context.Context, studentID, sessionID int64) error
	Unregister(ctx context.Context, studentID, sessionID int64) error
	StudentSessions(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error)
	SessionStudents(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error)
}

type StatsService interface {
	SessionStats(ctx context.Context) ([]domain.SessionStat, error)
	FullSessions(ctx context.Context) ([]domain.FullSession, error)
	StudentStats(ctx context.Context) ([]domain.StudentStat, error)
	// Invalidate drops any cached results so the next read hits the store.
	Invalidate(ctx context.Context)
}

type StudentService interface {
	CreateStudent(ctx context.Context, req *domain.CreateStudentRequest) (*domain.Student, error)
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	ListStudents(ctx context.Context, limit, offset int) ([]*domain.Student, error)
	UpdateStudent(ctx context.Context, id int64, req *domain.UpdateStudentRequest) (*domain.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type CatalogService interface {
	CreateLecture(ctx context.Context, req *domain.CreateLectureRequest) (*domain.Lecture, error)
	GetLecture(ctx context.Context, id int64) (*domain.Lecture, error)
	ListLectures(ctx context.Context) ([]*domain.Lecture, error)
	UpdateLecture(ctx context.Context, id int64, req *domain.UpdateLectureRequest) (*domain.Lecture, error)
	DeleteLecture(ctx context.Context, id int64) error

	CreateSession(ctx context.Context, req *domain.CreateSessionRequest) (*domain.LectureSession, error)
	GetSession(ctx context.Context, id int64) (*domain.LectureSession, error)
	ListSessions(ctx context.Context) ([]*domain.LectureSession, error)
	UpdateSession(ctx context.Context, id int64, req *domain.UpdateSessionRequest) (*domain.LectureSession, error)
	DeleteSession(ctx context.Context, id int64) error
}
