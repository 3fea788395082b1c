package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/internal/infrastructure/repository"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
)

type fixture struct {
	store    *interfaces.Store
	stats    *StatsService
	regs     *RegistrationService
	lecture  *domain.Lecture
	students []*domain.Student
}

func newFixture(t *testing.T, numStudents int) *fixture {
	t.Helper()

	store := repository.NewMemoryStore(time.Second)
	stats := NewStatsService(store.Stats, nil, 0)
	f := &fixture{
		store: store,
		stats: stats,
		regs:  NewRegistrationService(store.Students, store.Sessions, store.Registrations, stats, 5*time.Second),
	}

	ctx := context.Background()
	category := "Technology"
	f.lecture = &domain.Lecture{LectureName: "Distributed Systems", Category: &category}
	if err := store.Lectures.Create(ctx, f.lecture); err != nil {
		t.Fatalf("Failed to create lecture: %v", err)
	}

	for i := 0; i < numStudents; i++ {
		s := &domain.Student{
			FirstName: "Student",
			LastName:  fmt.Sprintf("%03d", i),
			Email:     fmt.Sprintf("student%d@example.com", i),
		}
		if err := store.Students.Create(ctx, s); err != nil {
			t.Fatalf("Failed to create student: %v", err)
		}
		f.students = append(f.students, s)
	}
	return f
}

func (f *fixture) session(t *testing.T, capacity int) *domain.LectureSession {
	t.Helper()
	s := &domain.LectureSession{
		LectureID:   f.lecture.ID,
		SessionTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Capacity:    capacity,
	}
	if err := f.store.Sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return s
}
