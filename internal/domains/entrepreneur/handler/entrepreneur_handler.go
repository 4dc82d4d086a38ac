package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
	"fundacion-portal-backend/internal/domains/entrepreneur/service"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/internal/shared/response"
)

// Handler serves the entrepreneur endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// Create handles POST /entrepreneurs. The body is multipart: each group is a
// JSON blob field, the three images travel under "files" in slot order.
func (h *Handler) Create(c *gin.Context) {
	var p payload.CreateEntrepreneurPayload
	files, err := decodeBody(c, func(groups map[string][]string) error {
		return decodeGroups(groups, map[string]interface{}{
			payload.PersonField:           &p.Person,
			payload.AttributesField:       &p.Attributes,
			payload.EntrepreneurshipField: &p.Entrepreneurship,
		})
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	images, err := joinFiles(p.Entrepreneurship, files)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var fixed [model.NumImages]model.ImageInput
	for slot := 0; slot < model.NumImages; slot++ {
		img, ok := images[slot]
		if !ok {
			response.BadRequest(c, "all three images are required")
			return
		}
		fixed[slot] = img
	}

	e, err := h.service.Create(c.Request.Context(), p, fixed)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Entrepreneur registered successfully", e)
}

// Update handles PUT /entrepreneurs/:id. Plain JSON when no image changed,
// multipart with sentinel-announced slots otherwise.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var p payload.UpdateEntrepreneurPayload
	files, err := decodeBody(c, func(groups map[string][]string) error {
		return decodeGroups(groups, map[string]interface{}{
			payload.PersonField:           &p.Person,
			payload.AttributesField:       &p.Attributes,
			payload.EntrepreneurshipField: &p.Entrepreneurship,
		})
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	images := map[int]model.ImageInput{}
	if p.Entrepreneurship != nil {
		images, err = joinFiles(*p.Entrepreneurship, files)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	e, err := h.service.Update(c.Request.Context(), id, p, images)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Entrepreneur updated successfully", e)
}

// List handles GET /entrepreneurs.
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.service.List(c.Request.Context(), req)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Entrepreneurs retrieved successfully", resp)
}

// Get handles GET /entrepreneurs/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Entrepreneur retrieved successfully", e)
}

// Approve handles POST /entrepreneurs/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	h.setStatus(c, h.service.Approve, "Entrepreneur approved")
}

// Reject handles POST /entrepreneurs/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.setStatus(c, h.service.Reject, "Entrepreneur rejected")
}

// SetActive handles PATCH /entrepreneurs/:id/active.
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

	e, err := h.service.SetActive(c.Request.Context(), id, *body.Active)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Entrepreneur status updated", e)
}

// Delete handles DELETE /entrepreneurs/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Entrepreneur deleted successfully", nil)
}

func (h *Handler) setStatus(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error), msg string) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := op(c.Request.Context(), id)
	if model.HandleEntrepreneurError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, msg, e)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid entrepreneur id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody reads either a JSON body or a multipart form. It hands the
// group fields to decode and returns the uploaded files in arrival order.
func decodeBody(c *gin.Context, decode func(groups map[string][]string) error) ([]model.ImageInput, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var groups map[string]json.RawMessage
		if err := c.ShouldBindJSON(&groups); err != nil {
			return nil, err
		}
		fields := make(map[string][]string, len(groups))
		for name, raw := range groups {
			fields[name] = []string{string(raw)}
		}
		return nil, decode(fields)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := make([]model.ImageInput, 0, len(form.File[payload.FilesField]))
	for _, fh := range form.File[payload.FilesField] {
		content, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, model.ImageInput{
			Content:     content,
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return files, decode(form.Value)
}

func decodeGroups(fields map[string][]string, targets map[string]interface{}) error {
	for name, target := range targets {
		values := fields[name]
		if len(values) == 0 || values[0] == "" {
			continue
		}
		if err := json.Unmarshal([]byte(values[0]), target); err != nil {
			return err
		}
	}
	return nil
}

// joinFiles re-joins sentinel-announced image slots with the positionally
// corresponding entries of the files list, in ascending slot order.
func joinFiles(g payload.EntrepreneurshipGroup, files []model.ImageInput) (map[int]model.ImageInput, error) {
	out := make(map[int]model.ImageInput)
	next := 0
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		if _, ok := payload.ParseReplaceSentinel(g.Image(slot)); !ok {
			continue
		}
		if next >= len(files) {
			return nil, errors.New("no file sent for an announced image slot")
		}
		out[slot] = files[next]
		next++
	}
	return out, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
