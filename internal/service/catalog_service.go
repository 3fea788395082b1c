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

var _ serviceInterfaces.CatalogService = (*catalogService)(nil)

// catalogService manages lectures and their sessions
type catalogService struct {
	lectureRepo interfaces.LectureRepository
	sessionRepo interfaces.SessionRepository
	stats       serviceInterfaces.StatsService
}

func NewCatalogService(
	lectureRepo interfaces.LectureRepository,
	sessionRepo interfaces.SessionRepository,
	stats serviceInterfaces.StatsService,
) serviceInterfaces.CatalogService {
	return &catalogService{
		lectureRepo: lectureRepo,
		sessionRepo: sessionRepo,
		stats:       stats,
	}
}

func (s *catalogService) CreateLecture(ctx context.Context, req *domain.CreateLectureRequest) (*domain.Lecture, error) {
	lecture := &domain.Lecture{
		LectureName: strings.TrimSpace(req.LectureName),
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		logger.Error("Failed to create lecture: %v", err)
		return nil, fmt.Errorf("failed to create lecture: %w", err)
	}

	logger.Info("Lecture created with ID: %d", lecture.ID)
	return lecture, nil
}

func (s *catalogService) GetLecture(ctx context.Context, id int64) (*domain.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lecture: %w", err)
	}
	if lecture == nil {
		return nil, domain.NewNotFound("lecture", id)
	}
	return lecture, nil
}

func (s *catalogService) ListLectures(ctx context.Context) ([]*domain.Lecture, error) {
	lectures, err := s.lectureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lectures: %w", err)
	}
	if lectures == nil {
		lectures = []*domain.Lecture{}
	}
	return lectures, nil
}

func (s *catalogService) UpdateLecture(ctx context.Context, id int64, req *domain.UpdateLectureRequest) (*domain.Lecture, error) {
	lecture, err := s.GetLecture(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LectureName != nil {
		lecture.LectureName = strings.TrimSpace(*req.LectureName)
	}
	if req.Description != nil {
		lecture.Description = req.Description
	}
	if req.Category != nil {
		lecture.Category = req.Category
	}

	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		logger.Error("Failed to update lecture: %v", err)
		return nil, fmt.Errorf("failed to update lecture: %w", err)
	}

	s.invalidate(ctx)
	return lecture, nil
}

func (s *catalogService) DeleteLecture(ctx context.Context, id int64) error {
	deleted, err := s.lectureRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}
	if !deleted {
		return domain.NewNotFound("lecture", id)
	}

	logger.Info("Lecture %d deleted", id)
	return nil
}

func (s *catalogService) CreateSession(ctx context.Context, req *domain.CreateSessionRequest) (*domain.LectureSession, error) {
	if req.Capacity <= 0 {
		return nil, domain.NewValidationError("capacity must be greater than 0")
	}
	if _, err := s.GetLecture(ctx, req.LectureID); err != nil {
		return nil, err
	}

	session := &domain.LectureSession{
		LectureID:   req.LectureID,
		SessionTime: req.SessionTime.UTC(),
		Capacity:    req.Capacity,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		logger.Error("Failed to create session: %v", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Info("Session %d created for lecture %d with capacity %d", session.ID, session.LectureID, session.Capacity)
	s.invalidate(ctx)
	return s.GetSession(ctx, session.ID)
}

func (s *catalogService) GetSession(ctx context.Context, id int64) (*domain.LectureSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.NewNotFound("session", id)
	}
	return session, nil
}

func (s *catalogService) ListSessions(ctx context.Context) ([]*domain.LectureSession, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.LectureSession{}
	}
	return sessions, nil
}

// UpdateSession applies the non-nil fields of req. Capacity may be lowered
// below the current headcount; existing registrations are kept.
func (s *catalogService) UpdateSession(ctx context.Context, id int64, req *domain.UpdateSessionRequest) (*domain.LectureSession, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LectureID != nil && *req.LectureID != session.LectureID {
		if _, err := s.GetLecture(ctx, *req.LectureID); err != nil {
			return nil, err
		}
		session.LectureID = *req.LectureID
	}
	if req.SessionTime != nil {
		session.SessionTime = req.SessionTime.UTC()
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, domain.NewValidationError("capacity must be greater than 0")
		}
		if *req.Capacity < session.Capacity {
			count, err := s.sessionRepo.CountRegistrations(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to count registrations: %w", err)
			}
			if count > *req.Capacity {
				logger.Warn("Session %d capacity lowered to %d below its %d registrations", id, *req.Capacity, count)
			}
		}
		session.Capacity = *req.Capacity
	}

	session.Lecture = nil
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		logger.Error("Failed to update session: %v", err)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.invalidate(ctx)
	return s.GetSession(ctx, id)
}

// DeleteSession removes the session and its registrations
func (s *catalogService) DeleteSession(ctx context.Context, id int64) error {
	deleted, err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if !deleted {
		return domain.NewNotFound("session", id)
	}

	logger.Info("Session %d deleted", id)
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}
