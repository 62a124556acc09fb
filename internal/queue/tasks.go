package queue

import (
	"encoding/json"

	"github.com/catalog-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskMediaFetch downloads a product's media files.
	TaskMediaFetch = constants.TaskMediaFetch
	// TaskProductVerify runs verification over a product.
	TaskProductVerify = constants.TaskProductVerify
)

// MediaFetchPayload carries a media fetch task.
type MediaFetchPayload struct {
	ProductID uint `json:"product_id"`
}

// ProductVerifyPayload carries a verification task.
type ProductVerifyPayload struct {
	ProductID uint `json:"product_id"`
	UserID    uint `json:"user_id"`
}

// NewMediaFetchTask builds a media fetch task.
func NewMediaFetchTask(payload MediaFetchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMediaFetch, body), nil
}

// NewProductVerifyTask builds a verification task.
func NewProductVerifyTask(payload ProductVerifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductVerify, body), nil
}
