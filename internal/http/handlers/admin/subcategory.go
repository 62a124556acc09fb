package admin

import (
	"github.com/catalog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListCategories returns the catalog tree.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.SubcategoryService.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// CategoryRequest is the category create payload.
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory adds a top level category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	category, err := h.SubcategoryService.CreateCategory(req.Name, req.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// ListSubcategories returns subcategories, optionally by category.
func (h *Handler) ListSubcategories(c *gin.Context) {
	subcategories, err := h.SubcategoryService.List(queryUint(c, "category_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, subcategories)
}

// SubcategoryRequest is the subcategory create payload.
type SubcategoryRequest struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	SortOrder  int    `json:"sort_order"`
}

// CreateSubcategory adds a subcategory under a category.
func (h *Handler) CreateSubcategory(c *gin.Context) {
	var req SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	subcategory, err := h.SubcategoryService.Create(req.CategoryID, req.Name, req.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, subcategory)
}

// GetSubcategorySchema returns the ordered attribute schema.
func (h *Handler) GetSubcategorySchema(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	schema, err := h.SubcategoryService.Schema(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, schema)
}

// AssignAttributeRequest binds an attribute to a schema.
type AssignAttributeRequest struct {
	AttributeID uint `json:"attribute_id" binding:"required"`
	IsRequired  bool `json:"is_required"`
	SortOrder   int  `json:"sort_order"`
}

// AssignSchemaAttribute binds or updates an attribute in the schema.
func (h *Handler) AssignSchemaAttribute(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req AssignAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	binding, err := h.SubcategoryService.AssignAttribute(id, req.AttributeID, req.IsRequired, req.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, binding)
}

// RemoveSchemaAttribute unbinds an attribute from the schema.
func (h *Handler) RemoveSchemaAttribute(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	attributeID, ok := paramUint(c, "attribute_id")
	if !ok {
		return
	}
	if err := h.SubcategoryService.RemoveAttribute(id, attributeID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "атрибут исключён из схемы", nil)
}
