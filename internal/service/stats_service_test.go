package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"lecture-manager/internal/infrastructure/cache"
)

func TestStatsService_SessionStats_IncludesEmptySessions(t *testing.T) {
	f := newFixture(t, 1)
	empty := f.session(t, 3)
	used := f.session(t, 2)
	ctx := context.Background()

	_ = f.regs.Register(ctx, f.students[0].ID, used.ID)

	stats, err := f.stats.SessionStats(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(stats))
	}

	if stats[0].ID != empty.ID || stats[0].StudentCount != 0 || stats[0].AvailableSpots != 3 {
		t.Errorf("Unexpected stats for empty session: %+v", stats[0])
	}
	if stats[1].StudentCount != 1 || stats[1].AvailableSpots != 1 {
		t.Errorf("Unexpected stats for used session: %+v", stats[1])
	}
	if stats[1].LectureName != "Distributed Systems" {
		t.Errorf("Expected lecture name, got %q", stats[1].LectureName)
	}
}

func TestStatsService_FullSessions_UsesEquality(t *testing.T) {
	f := newFixture(t, 3)
	full := f.session(t, 1)
	overbooked := f.session(t, 2)
	ctx := context.Background()

	_ = f.regs.Register(ctx, f.students[0].ID, full.ID)
	_ = f.regs.Register(ctx, f.students[1].ID, overbooked.ID)
	_ = f.regs.Register(ctx, f.students[2].ID, overbooked.ID)

	// capacity lowered below the headcount after the fact
	overbooked.Capacity = 1
	overbooked.Lecture = nil
	if err := f.store.Sessions.Update(ctx, overbooked); err != nil {
		t.Fatalf("Failed to lower capacity: %v", err)
	}

	sessions, err := f.stats.FullSessions(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != full.ID {
		t.Fatalf("Expected only session %d to be full, got %+v", full.ID, sessions)
	}

	stats, _ := f.stats.SessionStats(ctx)
	if stats[1].AvailableSpots != -1 {
		t.Errorf("Expected negative available spots for overbooked session, got %d", stats[1].AvailableSpots)
	}
}

func TestStatsService_StudentStats_EmptySessionsArray(t *testing.T) {
	f := newFixture(t, 2)
	session := f.session(t, 5)
	ctx := context.Background()

	_ = f.regs.Register(ctx, f.students[0].ID, session.ID)

	stats, err := f.stats.StudentStats(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected every student listed, got %d", len(stats))
	}
	if stats[0].TotalSessions != 1 || stats[0].Sessions[0].Category == nil {
		t.Errorf("Unexpected stats for registered student: %+v", stats[0])
	}
	if stats[1].TotalSessions != 0 {
		t.Errorf("Expected 0 sessions, got %d", stats[1].TotalSessions)
	}

	body, err := json.Marshal(stats[1])
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if !strings.Contains(string(body), `"sessions":[]`) {
		t.Errorf("Expected sessions to encode as [], got %s", body)
	}
}

func TestStatsService_CacheInvalidatedByRegistration(t *testing.T) {
	f := newFixture(t, 1)
	session := f.session(t, 2)
	ctx := context.Background()

	stats := NewStatsService(f.store.Stats, cache.NewMemoryCache(), time.Minute)
	regs := NewRegistrationService(f.store.Students, f.store.Sessions, f.store.Registrations, stats, time.Second)

	before, _ := stats.SessionStats(ctx)
	if before[0].StudentCount != 0 {
		t.Fatalf("Expected 0 registrations, got %d", before[0].StudentCount)
	}

	if err := regs.Register(ctx, f.students[0].ID, session.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	after, _ := stats.SessionStats(ctx)
	if after[0].StudentCount != 1 {
		t.Errorf("Expected cached stats to be invalidated, got count %d", after[0].StudentCount)
	}
}

type failingCache struct {
	cache.MemoryCache
}

func (*failingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, errors.New("cache down")
}

func (*failingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return errors.New("cache down")
}

func TestStatsService_CacheFailureFallsThrough(t *testing.T) {
	f := newFixture(t, 0)
	f.session(t, 1)

	stats := NewStatsService(f.store.Stats, &failingCache{}, time.Minute)
	result, err := stats.SessionStats(context.Background())
	if err != nil {
		t.Fatalf("Expected cache failure not to fail the query, got %v", err)
	}
	if len(result) != 1 {
		t.Errorf("Expected 1 session, got %d", len(result))
	}
}

func TestStatsService_EmptyStore(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	sessions, err := f.stats.FullSessions(ctx)
	if err != nil || sessions == nil || len(sessions) != 0 {
		t.Errorf("Expected empty non-nil result, got %#v, %v", sessions, err)
	}

	students, err := f.stats.StudentStats(ctx)
	if err != nil || students == nil || len(students) != 0 {
		t.Errorf("Expected empty non-nil result, got %#v, %v", students, err)
	}
}
