package handlers

import (
	"bytes"
	"net/http"
	"path/filepath"

	"predictor/models"
	"predictor/storage"
	"predictor/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ImageFetchRequest struct {
	Size uint `form:"size"` // optional: downscale so the longer side is at most this
}

// ImageFetch serves a stored blob by logical root and filename. Only the
// two known roots are valid; the filename is reduced to its base so the
// path cannot escape the bucket.
func (e *Env) ImageFetch(c *gin.Context, user *models.User) {
	imageType := c.Param("type")
	if imageType != storage.StorageLocationOriginal && imageType != storage.StorageLocationPredicted {
		c.JSON(http.StatusBadRequest, DetailResponse{"Invalid image type"})
		return
	}
	path := imageType + "/" + filepath.Base(c.Param("filename"))
	if e.Storage.GetSize(path) <= 0 {
		if e.Storage.EnsureLocalFile(path) != nil {
			c.JSON(http.StatusNotFound, DetailResponse{"Image not found"})
			return
		}
		defer e.Storage.ReleaseLocalFile(path)
	}

	fr := ImageFetchRequest{}
	_ = c.ShouldBindWith(&fr, binding.Query)
	if fr.Size > 0 {
		var original bytes.Buffer
		if _, err := e.Storage.Load(path, &original); err != nil {
			c.JSON(http.StatusNotFound, DetailResponse{"Image not found"})
			return
		}
		var thumb bytes.Buffer
		if _, err := utils.CreateThumb(fr.Size, &original, &thumb); err != nil {
			c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
		return
	}
	e.Storage.Serve(path, c.Request, c.Writer)
}
