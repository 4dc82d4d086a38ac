package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/staff/model"
	"fundacion-portal-backend/internal/domains/staff/service"
	"fundacion-portal-backend/internal/shared/response"
)

// Handler serves the staff auth endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if model.HandleStaffError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Login successful", resp)
}

// Profile handles GET /auth/me. The auth middleware has already put the
// staff id on the context.
func (h *Handler) Profile(c *gin.Context) {
	raw, ok := c.Get("staff_id")
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		response.Unauthorized(c, "invalid token subject")
		return
	}

	staff, err := h.service.Profile(c.Request.Context(), id)
	if model.HandleStaffError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", staff)
}
