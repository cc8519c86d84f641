package v1

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/response"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentUC     domain.DocumentUsecase
	uploadLimiter  *ratelimit.UploadLimiter
	maxUploadBytes int64
}

// NewDocumentHandler registers document routes
func NewDocumentHandler(r *gin.RouterGroup, documentUC domain.DocumentUsecase, limiter *ratelimit.UploadLimiter, maxUploadBytes int64) {
	handler := &DocumentHandler{
		documentUC:     documentUC,
		uploadLimiter:  limiter,
		maxUploadBytes: maxUploadBytes,
	}

	documents := r.Group("/documents")
	{
		documents.GET("", handler.ListDocuments)
		documents.POST("", handler.UploadDocument)
		documents.GET("/:id/download", handler.DownloadDocument)
		documents.DELETE("/:id", handler.DeleteDocument)
	}
}

// UploadDocument accepts a multipart upload. The multipart parsing lives
// here; the usecase only sees a stream plus metadata.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	allowed, retryAfter, err := h.uploadLimiter.AllowUpload(c.Request.Context(), c.ClientIP(), userID)
	if err != nil {
		// Fail open: a Redis hiccup should not block candidates.
		logger.Log.Warn("upload rate limit check errored", "error", err)
	} else if !allowed {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		response.Error(c, http.StatusTooManyRequests, "Too many uploads, slow down", nil)
		return
	}

	// Cap the whole request body; oversized uploads fail before the service
	// touches storage.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+4096)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("file field is required"))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.Error(apperror.BadRequest("file exceeds the upload size limit"))
		return
	}

	docType := c.PostForm("type")
	isPublic, _ := strconv.ParseBool(c.DefaultPostForm("is_public", "false"))

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("could not read uploaded file"))
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}

	doc, err := h.documentUC.Upload(c.Request.Context(), userID, &domain.DocumentUploadInput{
		Type:     docType,
		FileName: fileHeader.Filename,
		MimeType: mimeType,
		Size:     fileHeader.Size,
		IsPublic: isPublic,
		Content:  file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Document uploaded", doc)
}

// ListDocuments returns all documents owned by the current user.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	docs, err := h.documentUC.ListMyDocuments(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Documents retrieved", docs)
}

// DownloadDocument streams the file bytes with the original file name.
// Owners can fetch their own documents; anyone can fetch public ones.
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	documentID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	download, err := h.documentUC.Download(c.Request.Context(), userID, documentID)
	if err != nil {
		c.Error(err)
		return
	}
	defer download.Content.Close()

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": download.Document.FileName,
	}))
	c.Header("Content-Type", download.Document.MimeType)
	c.Header("Content-Length", strconv.FormatInt(download.Document.FileSize, 10))

	if _, err := io.Copy(c.Writer, download.Content); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		logger.Log.Warn("document download interrupted", "document_id", documentID, "error", err)
	}
}

// DeleteDocument removes the document metadata and its stored bytes.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	documentID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.documentUC.Delete(c.Request.Context(), userID, documentID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document deleted", nil)
}
