package admin

import (
	"time"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSuppliers returns suppliers with their derived collection state.
func (h *Handler) ListSuppliers(c *gin.Context) {
	filter := repository.SupplierListFilter{
		Search:        c.Query("search"),
		SubcategoryID: queryUint(c, "subcategory_id"),
		ActiveOnly:    c.DefaultQuery("active", "1") == "1",
	}
	suppliers, err := h.SupplierService.List(filter, c.Query("state"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, suppliers)
}

// SupplierRequest is the supplier create and update payload.
type SupplierRequest struct {
	Name           string `json:"name" binding:"required"`
	ContactPerson  string `json:"contact_person"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	SubcategoryIDs []uint `json:"subcategory_ids"`
	IsActive       *bool  `json:"is_active"`
}

// CreateSupplier adds a supplier.
func (h *Handler) CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	supplier, err := h.SupplierService.Create(service.SupplierInput{
		Name:           req.Name,
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		SubcategoryIDs: req.SubcategoryIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, supplier)
}

// GetSupplier returns one supplier.
func (h *Handler) GetSupplier(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	supplier, err := h.SupplierService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, supplier)
}

// UpdateSupplier changes supplier contact data and coverage.
func (h *Handler) UpdateSupplier(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	supplier, err := h.SupplierService.Update(id, service.SupplierInput{
		Name:           req.Name,
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		SubcategoryIDs: req.SubcategoryIDs,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, supplier)
}

// ListSupplierRequests returns the request history and stats of a supplier.
func (h *Handler) ListSupplierRequests(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if _, err := h.SupplierService.Get(id); err != nil {
		respondServiceError(c, err)
		return
	}
	requests, err := h.DataRequestService.List(repository.DataRequestListFilter{SupplierID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	stats, err := h.DataRequestService.SupplierStats(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"requests": requests, "stats": stats})
}

// CollectionStats summarizes the data collection stage.
func (h *Handler) CollectionStats(c *gin.Context) {
	stats, err := h.SupplierService.CollectionStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

// DataRequestRequest is the data request create payload.
type DataRequestRequest struct {
	SupplierID     uint       `json:"supplier_id" binding:"required"`
	CategoryID     uint       `json:"category_id" binding:"required"`
	SubcategoryIDs []uint     `json:"subcategory_ids"`
	Deadline       *time.Time `json:"deadline"`
	RequestMessage string     `json:"request_message"`
}

// CreateDataRequest opens a new data request for a supplier.
func (h *Handler) CreateDataRequest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req DataRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	request, err := h.DataRequestService.Create(service.DataRequestInput{
		SupplierID:     req.SupplierID,
		CategoryID:     req.CategoryID,
		SubcategoryIDs: req.SubcategoryIDs,
		RequestedByID:  userID,
		Deadline:       req.Deadline,
		RequestMessage: req.RequestMessage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// ListDataRequests returns requests filtered by status, supplier or category.
func (h *Handler) ListDataRequests(c *gin.Context) {
	requests, err := h.DataRequestService.List(repository.DataRequestListFilter{
		Status:     c.Query("status"),
		SupplierID: queryUint(c, "supplier_id"),
		CategoryID: queryUint(c, "category_id"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, requests)
}

// GetDataRequest returns one request.
func (h *Handler) GetDataRequest(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	request, err := h.DataRequestService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// SendDataRequest marks a request as sent to the supplier.
func (h *Handler) SendDataRequest(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	request, err := h.DataRequestService.Send(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// ReceiveDataRequestRequest records a supplier answer.
type ReceiveDataRequestRequest struct {
	ImportBatchID   *uint  `json:"import_batch_id"`
	ResponseMessage string `json:"response_message"`
}

// ReceiveDataRequest marks a request as answered with data.
func (h *Handler) ReceiveDataRequest(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req ReceiveDataRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "неверный формат запроса")
		return
	}
	request, err := h.DataRequestService.MarkReceived(id, req.ImportBatchID, req.ResponseMessage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// NoResponseDataRequest closes a request as unanswered.
func (h *Handler) NoResponseDataRequest(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	request, err := h.DataRequestService.MarkNoResponse(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// CancelDataRequest withdraws a request.
func (h *Handler) CancelDataRequest(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	request, err := h.DataRequestService.Cancel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, request)
}

// CheckOverdueDataRequests closes sent requests past their deadline.
func (h *Handler) CheckOverdueDataRequests(c *gin.Context) {
	count, err := h.DataRequestService.CheckOverdue()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": count})
}
