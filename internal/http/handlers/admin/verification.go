package admin

import (
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/queue"

	"github.com/gin-gonic/gin"
)

// VerifyProduct runs verification over a product and returns the result.
// With async=1 the run is queued instead.
func (h *Handler) VerifyProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	if c.Query("async") == "1" && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueProductVerify(queue.ProductVerifyPayload{ProductID: id, UserID: userID}); err != nil {
			respondServiceError(c, err)
			return
		}
		response.SuccessWithMsg(c, "верификация поставлена в очередь", nil)
		return
	}

	verification, err := h.VerificationService.VerifyProduct(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, verification)
}

// GetLatestVerification returns the most recent verification run.
func (h *Handler) GetLatestVerification(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	verification, err := h.VerificationRepo.Latest(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if verification == nil {
		response.NotFound(c, "товар ещё не проходил верификацию")
		return
	}
	response.Success(c, verification)
}

// FetchProductMedia triggers media acquisition for a product.
func (h *Handler) FetchProductMedia(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if c.Query("async") == "1" && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueMediaFetch(queue.MediaFetchPayload{ProductID: id}); err != nil {
			respondServiceError(c, err)
			return
		}
		response.SuccessWithMsg(c, "скачивание медиа поставлено в очередь", nil)
		return
	}

	stats, err := h.MediaService.ProcessProductMedia(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}
