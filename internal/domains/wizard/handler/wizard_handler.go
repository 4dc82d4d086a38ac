package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fundacion-portal-backend/internal/domains/wizard/model"
	"fundacion-portal-backend/internal/domains/wizard/service"
	"fundacion-portal-backend/internal/shared/classify"
	"fundacion-portal-backend/internal/shared/response"
)

// Handler serves the wizard endpoints. Sessions are addressed by the opaque
// id returned from Open; no authentication is required because the public
// submits through these flows.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// Open handles POST /wizards.
func (h *Handler) Open(c *gin.Context) {
	var req struct {
		Domain   string `json:"domain"`
		Flow     string `json:"flow"`
		RecordID string `json:"record_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.service.Open(c.Request.Context(), req.Domain, req.Flow, req.RecordID)
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Wizard opened", session)
}

// Get handles GET /wizards/:id.
func (h *Handler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Wizard state", session)
}

// SetField handles PUT /wizards/:id/fields.
func (h *Handler) SetField(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		response.BadRequest(c, "field name is required")
		return
	}

	session, err := h.service.SetField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Field updated", session)
}

// AttachImage handles POST /wizards/:id/images/:slot.
func (h *Handler) AttachImage(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "an image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "could not read the uploaded image")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, "could not read the uploaded image")
		return
	}

	session, err := h.service.AttachImage(c.Request.Context(), c.Param("id"), slot,
		fh.Filename, fh.Header.Get("Content-Type"), data)
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Image attached", session)
}

// ClearImage handles DELETE /wizards/:id/images/:slot.
func (h *Handler) ClearImage(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	session, err := h.service.ClearImage(c.Request.Context(), c.Param("id"), slot)
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Image cleared", session)
}

// Next handles POST /wizards/:id/next.
func (h *Handler) Next(c *gin.Context) {
	session, err := h.service.Next(c.Request.Context(), c.Param("id"))
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Step advanced", session)
}

// Back handles POST /wizards/:id/back.
func (h *Handler) Back(c *gin.Context) {
	session, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Step reverted", session)
}

// Submit handles POST /wizards/:id/submit.
func (h *Handler) Submit(c *gin.Context) {
	session, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Submission processed", session)
}

// Cancel handles DELETE /wizards/:id.
func (h *Handler) Cancel(c *gin.Context) {
	err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if handleWizardError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Wizard cancelled", nil)
}

func parseSlot(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		response.BadRequest(c, "invalid image slot")
		return 0, false
	}
	return slot, true
}

func handleWizardError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var wizErr *model.WizardError
	if errors.As(err, &wizErr) {
		response.ErrorResponse(c, wizErr.Status, wizErr.Code, wizErr.Message)
		return true
	}

	// Record-service errors surface directly when opening an edit wizard
	// against a missing or conflicting record.
	var statusErr classify.StatusError
	if errors.As(err, &statusErr) {
		response.ErrorResponse(c, statusErr.HTTPStatus(), "WIZ000", statusErr.Error())
		return true
	}

	response.InternalServerError(c, "Internal server error")
	return true
}
