package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "lecture-manager/internal/domain/registration"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	serviceInterfaces "lecture-manager/internal/interfaces/service"
	"lecture-manager/internal/metrics"
	"lecture-manager/pkg/logger"
)

var _ serviceInterfaces.RegistrationService = (*RegistrationService)(nil)

// RegistrationService enrolls students into sessions without ever letting a
// session's registration count pass its capacity.
type RegistrationService struct {
	studentRepo      interfaces.StudentRepository
	sessionRepo      interfaces.SessionRepository
	registrationRepo interfaces.RegistrationRepository
	stats            serviceInterfaces.StatsService
	acquireTimeout   time.Duration
}

// NewRegistrationService creates a registration service. stats may be nil;
// when set, its cache is invalidated after every successful write.
// acquireTimeout bounds each Register call including the wait for a pooled
// connection; zero means the caller's context alone decides.
func NewRegistrationService(
	studentRepo interfaces.StudentRepository,
	sessionRepo interfaces.SessionRepository,
	registrationRepo interfaces.RegistrationRepository,
	stats serviceInterfaces.StatsService,
	acquireTimeout time.Duration,
) *RegistrationService {
	return &RegistrationService{
		studentRepo:      studentRepo,
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		stats:            stats,
		acquireTimeout:   acquireTimeout,
	}
}

func validateIDs(studentID, sessionID int64) error {
	if studentID <= 0 || sessionID <= 0 {
		return domain.NewValidationError("student_id and session_id must be positive integers")
	}
	return nil
}

// Register enrolls studentID into sessionID. The session row stays locked
// from the capacity read until commit, so concurrent calls for the same
// session are applied one at a time.
func (s *RegistrationService) Register(ctx context.Context, studentID, sessionID int64) (err error) {
	defer func() {
		metrics.RegistrationAttempts.WithLabelValues(outcome(err)).Inc()
	}()

	if err := validateIDs(studentID, sessionID); err != nil {
		return err
	}

	txCtx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}

	err = s.registrationRepo.WithinTransaction(txCtx, func(tx interfaces.RegistrationTx) error {
		session, err := tx.LockSession(txCtx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to lock session %d: %w", sessionID, err)
		}
		if session == nil {
			return domain.NewNotFound("session", sessionID)
		}

		exists, err := tx.StudentExists(txCtx, studentID)
		if err != nil {
			return fmt.Errorf("failed to look up student %d: %w", studentID, err)
		}
		if !exists {
			return domain.NewNotFound("student", studentID)
		}

		count, err := tx.CountRegistrations(txCtx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= session.Capacity {
			return domain.ErrCapacityExceeded
		}

		registered, err := tx.RegistrationExists(txCtx, studentID, sessionID)
		if err != nil {
			return fmt.Errorf("failed to check existing registration: %w", err)
		}
		if registered {
			return domain.ErrDuplicateRegistration
		}

		return tx.Create(txCtx, &domain.Registration{StudentID: studentID, SessionID: sessionID})
	})
	if err != nil {
		err = asBusy(txCtx, err)
		if errors.Is(err, domain.ErrBusy) {
			logger.Warn("Registration of student %d for session %d timed out: %v", studentID, sessionID, err)
		} else {
			logger.Debug("Registration of student %d for session %d rejected: %v", studentID, sessionID, err)
		}
		return err
	}

	logger.Info("Student %d registered for session %d", studentID, sessionID)
	s.invalidateStats(ctx)
	return nil
}

// Unregister removes the registration if it exists
func (s *RegistrationService) Unregister(ctx context.Context, studentID, sessionID int64) error {
	if err := validateIDs(studentID, sessionID); err != nil {
		return err
	}

	deleted, err := s.registrationRepo.Delete(ctx, studentID, sessionID)
	if err != nil {
		logger.Error("Failed to unregister student %d from session %d: %v", studentID, sessionID, err)
		return fmt.Errorf("failed to unregister: %w", err)
	}
	if !deleted {
		return domain.NewNotFound("registration", 0)
	}

	logger.Info("Student %d unregistered from session %d", studentID, sessionID)
	s.invalidateStats(ctx)
	return nil
}

func (s *RegistrationService) StudentSessions(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error) {
	if studentID <= 0 {
		return nil, domain.NewValidationError("student id must be a positive integer")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, domain.NewNotFound("student", studentID)
	}

	return s.registrationRepo.SessionsForStudent(ctx, studentID)
}

func (s *RegistrationService) SessionStudents(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error) {
	if sessionID <= 0 {
		return nil, domain.NewValidationError("session id must be a positive integer")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.NewNotFound("session", sessionID)
	}

	return s.registrationRepo.StudentsForSession(ctx, sessionID)
}

func (s *RegistrationService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(context.WithoutCancel(ctx))
	}
}

// asBusy reports an expired per-call deadline as ErrBusy no matter which
// layer noticed it first. Errors that already have a kind keep it.
func asBusy(ctx context.Context, err error) error {
	if outcome(err) != metrics.OutcomeError {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrBusy, err)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRegistered
	case errors.Is(err, domain.ErrCapacityExceeded):
		return metrics.OutcomeFull
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return metrics.OutcomeDuplicate
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrBusy):
		return metrics.OutcomeBusy
	default:
		return metrics.OutcomeError
	}
}
