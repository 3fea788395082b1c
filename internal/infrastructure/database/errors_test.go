package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "lecture-manager/internal/domain/registration"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "test"})
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"lock timeout", pgErr("55P03"), true},
		{"statement cancelled", pgErr("57014"), true},
		{"deadlock", pgErr("40P01"), true},
		{"serialization failure", pgErr("40001"), true},
		{"too many connections", pgErr("53300"), true},
		{"context deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), true},
		{"unique violation", pgErr("23505"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBusy(tt.err); got != tt.want {
				t.Errorf("IsBusy(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConstraintClassification(t *testing.T) {
	if !IsUniqueViolation(pgErr("23505")) {
		t.Error("Expected 23505 to be a unique violation")
	}
	if !IsForeignKeyViolation(pgErr("23503")) {
		t.Error("Expected 23503 to be a foreign key violation")
	}
	if !IsCheckViolation(pgErr("23514")) {
		t.Error("Expected 23514 to be a check violation")
	}
	if IsUniqueViolation(errors.New("duplicate")) {
		t.Error("Expected non-pg error not to be classified")
	}
}

func TestTranslateError(t *testing.T) {
	if TranslateError(nil) != nil {
		t.Error("Expected nil to stay nil")
	}

	err := TranslateError(pgErr("55P03"))
	if !errors.Is(err, domain.ErrBusy) {
		t.Errorf("Expected lock timeout to become ErrBusy, got %v", err)
	}

	original := pgErr("23505")
	if got := TranslateError(original); got != original {
		t.Errorf("Expected non-busy error to pass through unchanged, got %v", got)
	}
}
