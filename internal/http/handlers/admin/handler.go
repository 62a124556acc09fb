package admin

import (
	"errors"
	"strconv"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/provider"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves the operator API.
type Handler struct {
	*provider.Container
}

// New creates the operator API handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "неверный идентификатор")
		return 0, false
	}
	return uint(value), true
}

func queryUint(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "требуется авторизация")
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v > 0 {
			return uint(v), true
		}
	case float64:
		if v > 0 {
			return uint(v), true
		}
	}
	response.Unauthorized(c, "требуется авторизация")
	return 0, false
}

// respondServiceError maps well known service errors to response codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrMappingSessionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidPassword):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrCodeExists),
		errors.Is(err, service.ErrNameExists),
		errors.Is(err, service.ErrAttributeInUse),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotApproved),
		errors.Is(err, service.ErrEmptyData),
		errors.Is(err, service.ErrSupplierExists),
		errors.Is(err, service.ErrRequestAlreadySent),
		errors.Is(err, service.ErrRequestNotSent),
		errors.Is(err, service.ErrRequestCompleted):
		response.BadRequest(c, err.Error())
	default:
		response.Error(c, response.CodeInternal, err.Error())
	}
}
