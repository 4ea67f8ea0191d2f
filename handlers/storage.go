package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"churchcms/middleware"
	"churchcms/services"
)

// UploadImage stores the multipart "file" field; "folder" optionally picks the
// object prefix.
func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadSize+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "a file is required", err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		h.badRequest(c, "unreadable file", err.Error())
		return
	}
	defer file.Close()

	ctx, cancel := requestContext(c)
	defer cancel()
	info, err := h.services.Uploads.Upload(ctx, middleware.Principal(c), file,
		header.Filename, header.Header.Get("Content-Type"), header.Size, c.PostForm("folder"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}
