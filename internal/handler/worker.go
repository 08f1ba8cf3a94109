package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// WorkerHandler exposes worker management and the per-worker archive.
type WorkerHandler struct {
	workers   *service.WorkerService
	documents *service.DocumentService
	downloads *service.DownloadService
}

func NewWorkerHandler(workers *service.WorkerService, documents *service.DocumentService, downloads *service.DownloadService) *WorkerHandler {
	return &WorkerHandler{workers: workers, documents: documents, downloads: downloads}
}

// List returns the workers visible to the caller
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.workers.List(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", workers))
}

// Create adds a worker
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var input service.WorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	worker, err := h.workers.Create(c.Request.Context(), middleware.Session(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Worker created", worker))
}

// Get returns one worker
// @Router /workers/:id [get]
func (h *WorkerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	worker, err := h.workers.Get(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", worker))
}

// Update changes a worker's fields
// @Router /workers/:id [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.WorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	worker, err := h.workers.Update(c.Request.Context(), middleware.Session(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Worker updated", worker))
}

// Delete removes a worker and every document they own
// @Router /workers/:id [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workers.Delete(c.Request.Context(), middleware.Session(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Worker deleted", nil))
}

// Documents lists a worker's documents with fresh statuses
// @Router /workers/:id/documents [get]
func (h *WorkerHandler) Documents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	docs, err := h.documents.ListByWorker(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", docs))
}

// AssignProject adds the worker to a project
// @Router /workers/:id/projects/:projectId [post]
func (h *WorkerHandler) AssignProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	if err := h.workers.AssignToProject(c.Request.Context(), middleware.Session(c), id, projectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Worker assigned", nil))
}

// RemoveProject detaches the worker from a project
// @Router /workers/:id/projects/:projectId [delete]
func (h *WorkerHandler) RemoveProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	if err := h.workers.RemoveFromProject(c.Request.Context(), middleware.Session(c), id, projectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Worker removed from project", nil))
}

// Archive streams a ZIP of the worker's documents. Query params:
// skipExpired=true, types=comma-separated kinds.
// @Router /workers/:id/archive [get]
func (h *WorkerHandler) Archive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	opts := service.DownloadOptions{
		SkipExpired: c.Query("skipExpired") == "true",
	}
	if raw := c.QueryArray("types"); len(raw) > 0 {
		for _, t := range raw {
			opts.Types = append(opts.Types, model.DocumentType(t))
		}
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveName(id.Hex())))

	// Partial failures surface inside the archive as an error manifest, so
	// the stream stays a valid ZIP either way.
	if _, err := h.downloads.WorkerArchive(c.Request.Context(), middleware.Session(c), id, opts, c.Writer); err != nil {
		respondError(c, err)
	}
}

func archiveName(workerID string) string {
	return fmt.Sprintf("documentos_%s_%s.zip", workerID, time.Now().Format("20060102"))
}
