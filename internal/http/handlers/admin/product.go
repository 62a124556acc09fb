package admin

import (
	"strconv"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts returns products page by page.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		SubcategoryID: queryUint(c, "subcategory_id"),
		ImportBatchID: queryUint(c, "batch_id"),
		Status:        c.Query("status"),
		Search:        c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, buildPagination(page, pageSize, total))
}

// GetProduct returns one product with values and media.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProductRequest edits base product fields.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateProduct edits a product's base fields.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	product, err := h.ProductService.Update(id, service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// SetValueRequest stores one attribute value.
type SetValueRequest struct {
	AttributeID uint   `json:"attribute_id" binding:"required"`
	Value       string `json:"value"`
}

// SetProductValue validates and stores one attribute value.
func (h *Handler) SetProductValue(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	value, err := h.ProductService.SetAttributeValue(id, req.AttributeID, req.Value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, value)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "товар удалён", nil)
}

// GetProductHistory returns a product's workflow transitions.
func (h *Handler) GetProductHistory(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	history, err := h.ProductService.StatusHistory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, history)
}

// GetProductVerifications returns a product's verification runs.
func (h *Handler) GetProductVerifications(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	verifications, err := h.ProductService.Verifications(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, verifications)
}

// GetProductMedia returns a product's downloaded media files.
func (h *Handler) GetProductMedia(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	media, err := h.ProductService.Media(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, media)
}

// TransitionRequest is the manual status change payload.
type TransitionRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// TransitionProductStatus moves a product to a new workflow status.
func (h *Handler) TransitionProductStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	product, err := h.WorkflowService.TransitionStatus(id, req.Status, userID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// ExportProduct marks an approved product as exported.
func (h *Handler) ExportProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	product, err := h.WorkflowService.Export(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}
