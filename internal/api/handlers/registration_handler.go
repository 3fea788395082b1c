package handlers

import (
	"net/http"

	domain "lecture-manager/internal/domain/registration"
	serviceInterfaces "lecture-manager/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler handles registration-related HTTP requests
type RegistrationHandler struct {
	registrationService serviceInterfaces.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService serviceInterfaces.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// Register handles POST /api/v1/student-sessions/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.registrationService.Register(c.Request.Context(), req.StudentID, req.SessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Successfully registered for session",
		Data:    req,
	})
}

// Unregister handles DELETE /api/v1/student-sessions/unregister
func (h *RegistrationHandler) Unregister(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.registrationService.Unregister(c.Request.Context(), req.StudentID, req.SessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Successfully unregistered from session",
	})
}

// StudentSessions handles GET /api/v1/student-sessions/student/:studentId
func (h *RegistrationHandler) StudentSessions(c *gin.Context) {
	studentID, ok := parseID(c, "studentId")
	if !ok {
		return
	}

	sessions, err := h.registrationService.StudentSessions(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    sessions,
	})
}

// SessionStudents handles GET /api/v1/student-sessions/session/:sessionId
func (h *RegistrationHandler) SessionStudents(c *gin.Context) {
	sessionID, ok := parseID(c, "sessionId")
	if !ok {
		return
	}

	students, err := h.registrationService.SessionStudents(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    students,
	})
}
