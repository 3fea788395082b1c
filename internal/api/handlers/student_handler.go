package handlers

import (
	"net/http"
	"strconv"

	domain "lecture-manager/internal/domain/registration"
	serviceInterfaces "lecture-manager/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// StudentHandler handles student-related HTTP requests
type StudentHandler struct {
	studentService serviceInterfaces.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService serviceInterfaces.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent handles POST /students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req domain.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Student created successfully",
		Data:    student,
	})
}

// GetStudent handles GET /students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    student,
	})
}

// ListStudents handles GET /students?limit=&offset=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    students,
	})
}

// UpdateStudent handles PUT /students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Student updated successfully",
		Data:    student,
	})
}

// DeleteStudent handles DELETE /students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Student deleted successfully",
	})
}
