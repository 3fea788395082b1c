package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lecture-manager/internal/domain/registration"
)

func TestCatalogService_CreateSession(t *testing.T) {
	f := newFixture(t, 0)
	catalog := NewCatalogService(f.store.Lectures, f.store.Sessions, f.stats)
	ctx := context.Background()

	session, err := catalog.CreateSession(ctx, &domain.CreateSessionRequest{
		LectureID:   f.lecture.ID,
		SessionTime: time.Now(),
		Capacity:    10,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if session.Lecture == nil || session.Lecture.ID != f.lecture.ID {
		t.Errorf("Expected session to carry its lecture, got %+v", session.Lecture)
	}

	var nf *domain.NotFoundError
	_, err = catalog.CreateSession(ctx, &domain.CreateSessionRequest{LectureID: 999, SessionTime: time.Now(), Capacity: 1})
	if !errors.As(err, &nf) || nf.Entity != "lecture" {
		t.Errorf("Expected lecture not found, got %v", err)
	}

	_, err = catalog.CreateSession(ctx, &domain.CreateSessionRequest{LectureID: f.lecture.ID, SessionTime: time.Now(), Capacity: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected ErrValidation for zero capacity, got %v", err)
	}
}

func TestCatalogService_LowerCapacityBelowHeadcount(t *testing.T) {
	f := newFixture(t, 2)
	session := f.session(t, 2)
	catalog := NewCatalogService(f.store.Lectures, f.store.Sessions, f.stats)
	ctx := context.Background()

	_ = f.regs.Register(ctx, f.students[0].ID, session.ID)
	_ = f.regs.Register(ctx, f.students[1].ID, session.ID)

	capacity := 1
	updated, err := catalog.UpdateSession(ctx, session.ID, &domain.UpdateSessionRequest{Capacity: &capacity})
	if err != nil {
		t.Fatalf("Expected capacity change to be allowed, got %v", err)
	}
	if updated.Capacity != 1 {
		t.Errorf("Expected capacity 1, got %d", updated.Capacity)
	}

	count, _ := f.store.Sessions.CountRegistrations(ctx, session.ID)
	if count != 2 {
		t.Errorf("Expected existing registrations to be kept, got %d", count)
	}
}

func TestCatalogService_DeleteLecture(t *testing.T) {
	f := newFixture(t, 0)
	session := f.session(t, 1)
	catalog := NewCatalogService(f.store.Lectures, f.store.Sessions, f.stats)
	ctx := context.Background()

	if err := catalog.DeleteLecture(ctx, f.lecture.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected ErrValidation while sessions exist, got %v", err)
	}

	if err := catalog.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := catalog.DeleteLecture(ctx, f.lecture.ID); err != nil {
		t.Fatalf("Expected lecture delete to succeed, got %v", err)
	}
	if _, err := catalog.GetLecture(ctx, f.lecture.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
