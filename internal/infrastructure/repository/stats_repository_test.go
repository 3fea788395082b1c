package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestGroupStudentRows(t *testing.T) {
	when := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []studentSessionRow{
		{
			StudentID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			SessionID:   sql.NullInt64{Int64: 10, Valid: true},
			SessionTime: sql.NullTime{Time: when, Valid: true},
			LectureName: sql.NullString{String: "Compilers", Valid: true},
			Category:    sql.NullString{String: "Technology", Valid: true},
		},
		{
			StudentID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			SessionID:   sql.NullInt64{Int64: 11, Valid: true},
			SessionTime: sql.NullTime{Time: when.Add(time.Hour), Valid: true},
			LectureName: sql.NullString{String: "Databases", Valid: true},
		},
		{StudentID: 2, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	}

	stats := groupStudentRows(rows)
	if len(stats) != 2 {
		t.Fatalf("Expected 2 students, got %d", len(stats))
	}

	ada := stats[0]
	if ada.TotalSessions != 2 || len(ada.Sessions) != 2 {
		t.Errorf("Expected Ada to have 2 sessions, got total=%d len=%d", ada.TotalSessions, len(ada.Sessions))
	}
	if ada.Sessions[0].Category == nil || *ada.Sessions[0].Category != "Technology" {
		t.Errorf("Expected first session category Technology, got %v", ada.Sessions[0].Category)
	}
	if ada.Sessions[1].Category != nil {
		t.Errorf("Expected NULL category to stay nil, got %v", *ada.Sessions[1].Category)
	}

	alan := stats[1]
	if alan.TotalSessions != 0 {
		t.Errorf("Expected Alan to have 0 sessions, got %d", alan.TotalSessions)
	}
	if alan.Sessions == nil {
		t.Error("Expected empty, non-nil sessions slice")
	}
}

func TestGroupStudentRows_Empty(t *testing.T) {
	stats := groupStudentRows(nil)
	if stats == nil || len(stats) != 0 {
		t.Errorf("Expected empty non-nil result, got %#v", stats)
	}
}
