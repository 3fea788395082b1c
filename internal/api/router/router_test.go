package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lecture-manager/internal/api/handlers"
	"lecture-manager/internal/config"
	"lecture-manager/internal/infrastructure/repository"
	"lecture-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func newTestRouter(auth config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore(time.Second)
	stats := service.NewStatsService(store.Stats, nil, 0)
	return NewRouter(Dependencies{
		Registrations: service.NewRegistrationService(store.Students, store.Sessions, store.Registrations, stats, time.Second),
		Stats:         stats,
		Students:      service.NewStudentService(store.Students, stats),
		Catalog:       service.NewCatalogService(store.Lectures, store.Sessions, stats),
		Ping:          store.Ping,
		Auth:          auth,
	})
}

type client struct {
	t      *testing.T
	r      *gin.Engine
	bearer string
}

func (c *client) do(method, path string, body any) (int, handlers.APIResponse) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var resp handlers.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func (c *client) createID(path string, body any) int64 {
	c.t.Helper()
	status, resp := c.do(http.MethodPost, path, body)
	if status != http.StatusCreated {
		c.t.Fatalf("POST %s: expected 201, got %d (%s)", path, status, resp.Message)
	}
	data, _ := json.Marshal(resp.Data)
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		c.t.Fatalf("Failed to decode id: %v", err)
	}
	return created.ID
}

func TestRouter_RegistrationFlow(t *testing.T) {
	c := &client{t: t, r: newTestRouter(config.AuthConfig{})}

	lectureID := c.createID("/api/v1/courses", map[string]any{"lecture_name": "Operating Systems", "category": "Technology"})
	sessionID := c.createID("/api/v1/lecture-sessions", map[string]any{
		"lecture_id":   lectureID,
		"session_time": time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		"capacity":     1,
	})
	alice := c.createID("/api/v1/students", map[string]any{"first_name": "Alice", "last_name": "A", "email": "alice@example.com"})
	bob := c.createID("/api/v1/students", map[string]any{"first_name": "Bob", "last_name": "B", "email": "bob@example.com"})

	status, _ := c.do(http.MethodPost, "/api/v1/student-sessions/register", map[string]int64{"student_id": alice, "session_id": sessionID})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}

	status, resp := c.do(http.MethodPost, "/api/v1/student-sessions/register", map[string]int64{"student_id": bob, "session_id": sessionID})
	if status != http.StatusBadRequest || resp.Message != "Session is full" {
		t.Errorf("Expected 400 Session is full, got %d %q", status, resp.Message)
	}

	status, resp = c.do(http.MethodPost, "/api/v1/student-sessions/register", map[string]int64{"student_id": bob, "session_id": 999})
	if status != http.StatusNotFound || resp.Message != "Session not found" {
		t.Errorf("Expected 404 Session not found, got %d %q", status, resp.Message)
	}

	status, resp = c.do(http.MethodGet, "/api/v1/queries/full-sessions", nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if full, ok := resp.Data.([]any); !ok || len(full) != 1 {
		t.Errorf("Expected one full session, got %#v", resp.Data)
	}

	status, _ = c.do(http.MethodDelete, "/api/v1/student-sessions/unregister", map[string]int64{"student_id": alice, "session_id": sessionID})
	if status != http.StatusOK {
		t.Errorf("Expected 200 on unregister, got %d", status)
	}

	status, _ = c.do(http.MethodDelete, "/api/v1/student-sessions/unregister", map[string]int64{"student_id": alice, "session_id": sessionID})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 on repeated unregister, got %d", status)
	}

	status, resp = c.do(http.MethodGet, "/api/v1/queries/student-stats", nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	students, _ := resp.Data.([]any)
	if len(students) != 2 {
		t.Fatalf("Expected 2 students in stats, got %d", len(students))
	}
	first, _ := students[0].(map[string]any)
	if sessions, ok := first["sessions"].([]any); !ok || len(sessions) != 0 {
		t.Errorf("Expected sessions to be an empty array, got %#v", first["sessions"])
	}
}

func TestRouter_InvalidPathID(t *testing.T) {
	c := &client{t: t, r: newTestRouter(config.AuthConfig{})}

	status, _ := c.do(http.MethodGet, "/api/v1/student-sessions/student/abc", nil)
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", status)
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r := newTestRouter(config.AuthConfig{JWTSecret: "secret"})

	for _, path := range []string{"/health", "/live", "/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestRouter_Auth(t *testing.T) {
	const secret = "test-secret"
	c := &client{t: t, r: newTestRouter(config.AuthConfig{JWTSecret: secret})}

	status, _ := c.do(http.MethodGet, "/api/v1/queries/session-stats", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", status)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	c.bearer = signed
	status, _ = c.do(http.MethodGet, "/api/v1/queries/session-stats", nil)
	if status != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d", status)
	}

	wrong, _ := token.SignedString([]byte("other-secret"))
	c.bearer = wrong
	status, _ = c.do(http.MethodGet, "/api/v1/queries/session-stats", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong signature, got %d", status)
	}
}
