package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/domains/volunteer/service"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/internal/shared/response"
)

// Handler serves the volunteer endpoints. Volunteers carry no files, so
// every body is plain JSON.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// Create handles POST /volunteers.
func (h *Handler) Create(c *gin.Context) {
	var p payload.CreateVolunteerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	v, err := h.service.Create(c.Request.Context(), p)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Volunteer registered successfully", v)
}

// Update handles PUT /volunteers/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var p payload.UpdateVolunteerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	v, err := h.service.Update(c.Request.Context(), id, p)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer updated successfully", v)
}

// List handles GET /volunteers.
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.service.List(c.Request.Context(), req)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteers retrieved successfully", resp)
}

// Get handles GET /volunteers/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer retrieved successfully", v)
}

// Approve handles POST /volunteers/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, err := h.service.Approve(c.Request.Context(), id)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer approved", v)
}

// Reject handles POST /volunteers/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, err := h.service.Reject(c.Request.Context(), id)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer rejected", v)
}

// SetActive handles PATCH /volunteers/:id/active.
func (h *Handler) SetActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "active flag is required")
		return
	}

	v, err := h.service.SetActive(c.Request.Context(), id, *body.Active)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer status updated", v)
}

// Delete handles DELETE /volunteers/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if model.HandleVolunteerError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Volunteer deleted successfully", nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid volunteer id")
		return uuid.Nil, false
	}
	return id, true
}
