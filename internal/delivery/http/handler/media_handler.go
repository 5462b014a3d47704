package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/pkg/utils"
)

// MediaHandler serves stored profile images.
type MediaHandler struct {
	images storage.ImageStore
}

func NewMediaHandler(images storage.ImageStore) *MediaHandler {
	return &MediaHandler{images: images}
}

func (h *MediaHandler) Serve(c *gin.Context) {
	f, err := h.images.Open(c.Param("filepath"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.ErrorResponse(c, http.StatusNotFound, "file not found")
			return
		}
		respondWithError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		utils.ErrorResponse(c, http.StatusNotFound, "file not found")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
