package admin

import (
	"strconv"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAttributes returns the attribute registry page by page.
func (h *Handler) ListAttributes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	attributes, total, err := h.AttributeService.List(repository.AttributeListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, attributes, buildPagination(page, pageSize, total))
}

// GetAttribute returns one attribute definition.
func (h *Handler) GetAttribute(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	attribute, err := h.AttributeService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, attribute)
}

// AttributeRequest is the create/update payload.
type AttributeRequest struct {
	Code            string                 `json:"code"`
	Name            string                 `json:"name" binding:"required"`
	Type            string                 `json:"type"`
	Description     string                 `json:"description"`
	Unit            string                 `json:"unit"`
	IsUnique        bool                   `json:"is_unique"`
	ValidationRules map[string]interface{} `json:"validation_rules"`
	Options         []string               `json:"options"`
}

func (r AttributeRequest) toInput() service.AttributeInput {
	return service.AttributeInput{
		Code:            r.Code,
		Name:            r.Name,
		Type:            r.Type,
		Description:     r.Description,
		Unit:            r.Unit,
		IsUnique:        r.IsUnique,
		ValidationRules: r.ValidationRules,
		Options:         r.Options,
	}
}

// CreateAttribute adds an attribute definition.
func (h *Handler) CreateAttribute(c *gin.Context) {
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	attribute, err := h.AttributeService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, attribute)
}

// UpdateAttribute edits an attribute definition.
func (h *Handler) UpdateAttribute(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	attribute, err := h.AttributeService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, attribute)
}

// DeleteAttribute removes an unused attribute definition.
func (h *Handler) DeleteAttribute(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.AttributeService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "атрибут удалён", nil)
}

// ImportAttributesFile bulk-loads attribute definitions from a file.
func (h *Handler) ImportAttributesFile(c *gin.Context) {
	path, cleanup, ok := h.saveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.AttributeImportService.ImportFile(path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ClipboardRequest carries pasted spreadsheet text.
type ClipboardRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImportAttributesClipboard bulk-loads attribute definitions from text.
func (h *Handler) ImportAttributesClipboard(c *gin.Context) {
	var req ClipboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	result, err := h.AttributeImportService.ImportClipboard(req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// PreviewMapping parses pasted text and returns column suggestions
// together with a session id for the confirm step.
func (h *Handler) PreviewMapping(c *gin.Context) {
	var req ClipboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	session, err := h.AttributeImportService.PreviewClipboard(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// ConfirmMappingRequest carries the operator-edited mapping.
type ConfirmMappingRequest struct {
	SessionID string                 `json:"session_id" binding:"required"`
	Mapping   []service.MappingEntry `json:"mapping" binding:"required"`
}

// ConfirmMapping applies a previewed mapping to the registry.
func (h *Handler) ConfirmMapping(c *gin.Context) {
	var req ConfirmMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	result, err := h.AttributeImportService.ConfirmMapping(c.Request.Context(), req.SessionID, req.Mapping)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
