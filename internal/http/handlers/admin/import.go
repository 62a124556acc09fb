package admin

import (
	"strconv"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ImportProductsFile imports products from an uploaded file.
func (h *Handler) ImportProductsFile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subcategoryID, ok := paramUint(c, "subcategory_id")
	if !ok {
		return
	}
	path, cleanup, ok := h.saveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	file, _ := c.FormFile("file")
	result, err := h.ImportService.ImportFile(service.ImportInput{
		SubcategoryID: subcategoryID,
		FilePath:      path,
		FileName:      file.Filename,
		UserID:        userID,
		AutoVerify:    h.Config.Import.AutoVerify,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ImportProductsClipboard imports products from pasted text.
func (h *Handler) ImportProductsClipboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subcategoryID, ok := paramUint(c, "subcategory_id")
	if !ok {
		return
	}
	var req ClipboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	result, err := h.ImportService.ImportClipboard(service.ImportInput{
		SubcategoryID: subcategoryID,
		ClipboardText: req.Text,
		UserID:        userID,
		AutoVerify:    h.Config.Import.AutoVerify,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ListImportBatches returns import batches page by page.
func (h *Handler) ListImportBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	batches, total, err := h.ImportBatchRepo.List(repository.ImportBatchListFilter{
		Page:          page,
		PageSize:      pageSize,
		SubcategoryID: queryUint(c, "subcategory_id"),
		Source:        c.Query("source"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, batches, buildPagination(page, pageSize, total))
}

// GetImportBatch returns one import batch.
func (h *Handler) GetImportBatch(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	batch, err := h.ImportBatchRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if batch == nil {
		response.NotFound(c, "партия импорта не найдена")
		return
	}
	response.Success(c, batch)
}

// ExportImportBatch exports every approved product of a batch.
func (h *Handler) ExportImportBatch(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	products, err := h.WorkflowService.ExportBatch(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}
