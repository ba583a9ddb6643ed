package assets

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stylebox-hq/core/internal/middleware"
	"github.com/stylebox-hq/core/internal/pkg/response"
	"github.com/stylebox-hq/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const maxUploadBytes = 50 << 20 // 50 MiB

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".pdf": true, ".svg": true, ".ai": true, ".psd": true, ".zip": true,
	".mp4": true, ".glb": true,
}

// Handler accepts deliverable uploads and hands post-processing to the
// task queue.
type Handler struct {
	uploader *Uploader
	tasks    *taskqueue.Service
	logger   *zap.Logger
}

func NewHandler(uploader *Uploader, tasks *taskqueue.Service, logger *zap.Logger) *Handler {
	return &Handler{uploader: uploader, tasks: tasks, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/assets", authMW)
	g.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if h.uploader == nil {
		response.BadRequest(c, "asset storage is not configured")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field is required")
		return
	}
	if file.Size > maxUploadBytes {
		response.BadRequest(c, "file exceeds the 50 MiB limit")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		response.BadRequest(c, fmt.Sprintf("file type %q is not accepted", ext))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("submissions/%s/%s%s", middleware.CurrentUserID(c), uuid.New().String(), ext)
	url, err := h.uploader.Upload(c.Request.Context(), key, src, contentType)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	// Watermarking runs out of band; the raw URL is usable immediately.
	if h.tasks != nil && isImage(ext) {
		if _, err := h.tasks.Enqueue(c.Request.Context(), taskqueue.TypeAssetWatermark, gin.H{
			"key": key,
			"url": url,
		}, key, middleware.CurrentUserID(c)); err != nil && h.logger != nil {
			h.logger.Warn("watermark enqueue failed", zap.String("key", key), zap.Error(err))
		}
	}

	response.Created(c, gin.H{"key": key, "url": url})
}

func isImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}
