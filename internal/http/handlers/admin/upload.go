package admin

import (
	"os"
	"path/filepath"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUpload stores the uploaded "file" form field in a temp location
// and returns its path with a cleanup func.
func (h *Handler) saveUpload(c *gin.Context) (string, func(), bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "файл не найден в запросе")
		return "", nil, false
	}
	maxSize := h.Config.Import.MaxFileSize
	if maxSize > 0 && file.Size > maxSize {
		response.BadRequest(c, "файл слишком большой")
		return "", nil, false
	}

	path := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		logger.Warnw("upload_save_failed", "file", file.Filename, "error", err)
		response.Error(c, response.CodeInternal, "не удалось сохранить файл")
		return "", nil, false
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil {
			logger.Debugw("upload_cleanup_failed", "path", path, "error", err)
		}
	}
	return path, cleanup, true
}
