package worker

import (
	"context"
	"encoding/json"

	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/provider"
	"github.com/catalog-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks over the service container.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a task consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task handlers to the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskMediaFetch, c.handleMediaFetch)
	mux.HandleFunc(queue.TaskProductVerify, c.handleProductVerify)
}

func (c *Consumer) handleMediaFetch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.MediaFetchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_media_fetch_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_media_fetch_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.MediaService == nil {
		logger.Warnw("worker_media_fetch_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	stats, err := c.MediaService.ProcessProductMedia(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_media_fetch_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	logger.Infow("worker_media_fetch_done",
		"product_id", payload.ProductID,
		"images_downloaded", stats.ImagesDownloaded,
		"models_downloaded", stats.ModelsDownloaded,
		"errors", len(stats.Errors),
	)
	return nil
}

func (c *Consumer) handleProductVerify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ProductVerifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_product_verify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_product_verify_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.VerificationService == nil {
		logger.Warnw("worker_product_verify_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	verification, err := c.VerificationService.VerifyProduct(payload.ProductID, payload.UserID)
	if err != nil {
		logger.Warnw("worker_product_verify_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	logger.Infow("worker_product_verify_done",
		"product_id", payload.ProductID,
		"overall_score", verification.OverallScore,
	)
	return nil
}
