package handlers

import (
	"net/http"

	domain "lecture-manager/internal/domain/registration"
	serviceInterfaces "lecture-manager/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves lectures (/courses) and lecture sessions
type CatalogHandler struct {
	catalogService serviceInterfaces.CatalogService
}

func NewCatalogHandler(catalogService serviceInterfaces.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) CreateLecture(c *gin.Context) {
	var req domain.CreateLectureRequest
	if !bindJSON(c, &req) {
		return
	}

	lecture, err := h.catalogService.CreateLecture(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Lecture created successfully",
		Data:    lecture,
	})
}

func (h *CatalogHandler) GetLecture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lecture, err := h.catalogService.GetLecture(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: lecture})
}

func (h *CatalogHandler) ListLectures(c *gin.Context) {
	lectures, err := h.catalogService.ListLectures(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: lectures})
}

func (h *CatalogHandler) UpdateLecture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateLectureRequest
	if !bindJSON(c, &req) {
		return
	}

	lecture, err := h.catalogService.UpdateLecture(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Lecture updated successfully",
		Data:    lecture,
	})
}

func (h *CatalogHandler) DeleteLecture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteLecture(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Lecture deleted successfully"})
}

func (h *CatalogHandler) CreateSession(c *gin.Context) {
	var req domain.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.catalogService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Lecture session created successfully",
		Data:    session,
	})
}

func (h *CatalogHandler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.catalogService.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: session})
}

func (h *CatalogHandler) ListSessions(c *gin.Context) {
	sessions, err := h.catalogService.ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: sessions})
}

func (h *CatalogHandler) UpdateSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.catalogService.UpdateSession(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Lecture session updated successfully",
		Data:    session,
	})
}

func (h *CatalogHandler) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Lecture session deleted successfully"})
}
