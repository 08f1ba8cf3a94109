package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// DocumentHandler exposes the document lifecycle over HTTP.
type DocumentHandler struct {
	documents *service.DocumentService
	search    *service.SearchService
}

func NewDocumentHandler(documents *service.DocumentService, search *service.SearchService) *DocumentHandler {
	return &DocumentHandler{documents: documents, search: search}
}

// Upload stores a document for a worker. Multipart form: file, type,
// workerId, optional expiryDate (RFC 3339 or YYYY-MM-DD).
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	workerID, err := parseHexForm(c, "workerId")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid workerId", ""))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("file is required", ""))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("failed to read file", ""))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("failed to read file", ""))
		return
	}

	input := service.UploadInput{
		WorkerID:    workerID,
		Type:        model.DocumentType(c.PostForm("type")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	}
	if raw := c.PostForm("expiryDate"); raw != "" {
		expiry, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid expiryDate", ""))
			return
		}
		input.ExpiryDate = &expiry
	}

	doc, err := h.documents.Upload(c.Request.Context(), middleware.Session(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Document uploaded", doc))
}

// Get returns one document with a fresh status
// @Router /documents/:id [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", doc))
}

// Content streams the stored file
// @Router /documents/:id/content [get]
func (h *DocumentHandler) Content(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, reader, size, err := h.documents.GetContent(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.DataFromReader(http.StatusOK, size, doc.ContentType, reader, nil)
}

// Delete removes a document and its stored file
// @Router /documents/:id [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), middleware.Session(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Document deleted", nil))
}

// Search runs a filtered document search
// @Router /documents/search [post]
func (h *DocumentHandler) Search(c *gin.Context) {
	var query model.SearchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if query.Page == 0 {
		query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	}

	result, err := h.search.Search(c.Request.Context(), middleware.Session(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", result))
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
