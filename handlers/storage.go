package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"bookastay/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler handles direct ID document uploads, for clients that
// upload the file before calling confirm.
type StorageHandler struct {
	Storage storage.StorageService
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{Storage: svc}
}

// UploadIDHandler accepts a multipart file and returns its stored URL.
func (sh *StorageHandler) UploadIDHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}

	name := header.Filename
	if name == "" {
		name = fmt.Sprintf("id_%d", time.Now().UnixMilli())
	}

	url, err := sh.Storage.UploadBuffer(c.Request.Context(), data, name)
	if err != nil {
		zap.L().Error("ID upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
