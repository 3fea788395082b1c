package service

import (
	"context"
	"fmt"
	"strings"

	domain "lecture-manager/internal/domain/registration"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	serviceInterfaces "lecture-manager/internal/interfaces/service"
	"lecture-manager/pkg/logger"
)

var _ serviceInterfaces.StudentService = (*studentService)(nil)

// studentService implements the StudentService interface
type studentService struct {
	studentRepo interfaces.StudentRepository
	stats       serviceInterfaces.StatsService
}

// NewStudentService creates a new student service. stats may be nil.
func NewStudentService(studentRepo interfaces.StudentRepository, stats serviceInterfaces.StatsService) serviceInterfaces.StudentService {
	return &studentService{
		studentRepo: studentRepo,
		stats:       stats,
	}
}

// CreateStudent creates a new student
func (s *studentService) CreateStudent(ctx context.Context, req *domain.CreateStudentRequest) (*domain.Student, error) {
	email := strings.TrimSpace(req.Email)
	logger.Info("Creating student with email: %s", email)

	existing, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError("email already exists")
	}

	student := &domain.Student{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		logger.Error("Failed to create student: %v", err)
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	logger.Info("Student created successfully with ID: %d", student.ID)
	s.invalidate(ctx)
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *studentService) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	logger.Debug("Getting student with ID: %d", id)

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get student: %v", err)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, domain.NewNotFound("student", id)
	}
	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, limit, offset int) ([]*domain.Student, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	students, err := s.studentRepo.List(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list students: %v", err)
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if students == nil {
		students = []*domain.Student{}
	}
	return students, nil
}

// UpdateStudent applies the non-nil fields of req
func (s *studentService) UpdateStudent(ctx context.Context, id int64, req *domain.UpdateStudentRequest) (*domain.Student, error) {
	logger.Info("Updating student with ID: %d", id)

	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, student.Email) {
			existing, err := s.studentRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if existing != nil && existing.ID != id {
				return nil, domain.NewValidationError("email already exists")
			}
		}
		student.Email = email
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		logger.Error("Failed to update student: %v", err)
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.invalidate(ctx)
	return student, nil
}

// DeleteStudent removes the student and every registration they hold
func (s *studentService) DeleteStudent(ctx context.Context, id int64) error {
	logger.Info("Deleting student with ID: %d", id)

	deleted, err := s.studentRepo.Delete(ctx, id)
	if err != nil {
		logger.Error("Failed to delete student: %v", err)
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if !deleted {
		return domain.NewNotFound("student", id)
	}

	s.invalidate(ctx)
	return nil
}

func (s *studentService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}
