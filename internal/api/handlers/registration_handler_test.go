package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "lecture-manager/internal/domain/registration"

	"github.com/gin-gonic/gin"
)

// stubRegistrations returns err from every write
type stubRegistrations struct {
	err error
}

func (s *stubRegistrations) Register(ctx context.Context, studentID, sessionID int64) error {
	return s.err
}

func (s *stubRegistrations) Unregister(ctx context.Context, studentID, sessionID int64) error {
	return s.err
}

func (s *stubRegistrations) StudentSessions(ctx context.Context, studentID int64) ([]domain.StudentSessionView, error) {
	return []domain.StudentSessionView{}, s.err
}

func (s *stubRegistrations) SessionStudents(ctx context.Context, sessionID int64) ([]domain.SessionStudentView, error) {
	return []domain.SessionStudentView{}, s.err
}

func performRegister(t *testing.T, svc *stubRegistrations, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/register", NewRegistrationHandler(svc).Register)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestRegistrationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"success", nil, http.StatusCreated, "Successfully registered for session"},
		{"full", domain.ErrCapacityExceeded, http.StatusBadRequest, "Session is full"},
		{"duplicate", domain.ErrDuplicateRegistration, http.StatusBadRequest, "Student already registered for this session"},
		{"session missing", domain.NewNotFound("session", 7), http.StatusNotFound, "Session not found"},
		{"student missing", domain.NewNotFound("student", 7), http.StatusNotFound, "Student not found"},
		{"busy", fmt.Errorf("%w: lock timeout", domain.ErrBusy), http.StatusServiceUnavailable, "Service busy, please retry"},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performRegister(t, &stubRegistrations{err: tt.err}, `{"student_id":1,"session_id":2}`)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if resp.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, resp.Message)
			}
			if resp.Success != (tt.err == nil) {
				t.Errorf("Expected success=%v", tt.err == nil)
			}
		})
	}
}

func TestRegistrationHandler_BusySetsRetryAfter(t *testing.T) {
	w, _ := performRegister(t, &stubRegistrations{err: domain.ErrBusy}, `{"student_id":1,"session_id":2}`)
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Expected Retry-After 1, got %q", got)
	}
}

func TestRegistrationHandler_InvalidBody(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"student_id":1}`,
		`{"student_id":0,"session_id":2}`,
		`{"student_id":"1","session_id":2}`,
	} {
		w, resp := performRegister(t, &stubRegistrations{}, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", body, w.Code)
		}
		if resp.Success {
			t.Errorf("Body %s: expected success=false", body)
		}
	}
}
