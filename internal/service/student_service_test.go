package service

import (
	"context"
	"errors"
	"testing"

	domain "lecture-manager/internal/domain/registration"
)

func TestStudentService_CreateStudent(t *testing.T) {
	f := newFixture(t, 0)
	studentService := NewStudentService(f.store.Students, f.stats)

	req := &domain.CreateStudentRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
	}

	student, err := studentService.CreateStudent(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if student.ID == 0 {
		t.Error("Expected an id to be assigned")
	}
	if student.Email != req.Email {
		t.Errorf("Expected email %s, got %s", req.Email, student.Email)
	}
}

func TestStudentService_CreateStudent_DuplicateEmail(t *testing.T) {
	f := newFixture(t, 1)
	studentService := NewStudentService(f.store.Students, f.stats)

	_, err := studentService.CreateStudent(context.Background(), &domain.CreateStudentRequest{
		FirstName: "New",
		LastName:  "Student",
		Email:     f.students[0].Email,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
	if err.Error() != "email already exists" {
		t.Errorf("Expected 'email already exists', got '%s'", err.Error())
	}
}

func TestStudentService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t, 2)
	studentService := NewStudentService(f.store.Students, f.stats)
	ctx := context.Background()

	name := "Renamed"
	student, err := studentService.UpdateStudent(ctx, f.students[0].ID, &domain.UpdateStudentRequest{FirstName: &name})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if student.FirstName != "Renamed" {
		t.Errorf("Expected first name to change, got %s", student.FirstName)
	}

	taken := f.students[1].Email
	_, err = studentService.UpdateStudent(ctx, f.students[0].ID, &domain.UpdateStudentRequest{Email: &taken})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected ErrValidation for taken email, got %v", err)
	}

	if err := studentService.DeleteStudent(ctx, f.students[0].ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := studentService.GetStudent(ctx, f.students[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := studentService.DeleteStudent(ctx, f.students[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStudentService_ListStudents(t *testing.T) {
	f := newFixture(t, 5)
	studentService := NewStudentService(f.store.Students, f.stats)

	students, err := studentService.ListStudents(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("Expected 2 students, got %d", len(students))
	}
	if students[0].ID != f.students[1].ID {
		t.Errorf("Expected offset to skip the first student, got id %d", students[0].ID)
	}
}
