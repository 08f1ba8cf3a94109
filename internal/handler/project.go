package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// ProjectHandler exposes project management.
type ProjectHandler struct {
	projects *service.ProjectService
	workers  *service.WorkerService
}

func NewProjectHandler(projects *service.ProjectService, workers *service.WorkerService) *ProjectHandler {
	return &ProjectHandler{projects: projects, workers: workers}
}

// List returns the projects visible to the caller
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", projects))
}

// Create adds a project
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var input service.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	project, err := h.projects.Create(c.Request.Context(), middleware.Session(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Project created", project))
}

// Get returns one project
// @Router /projects/:id [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", project))
}

// Update changes a project's name or active flag
// @Router /projects/:id [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	project, err := h.projects.Update(c.Request.Context(), middleware.Session(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Project updated", project))
}

// Delete removes a project and detaches its workers and users
// @Router /projects/:id [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), middleware.Session(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Project deleted", nil))
}

// Workers lists the workers assigned to a project
// @Router /projects/:id/workers [get]
func (h *ProjectHandler) Workers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	workers, err := h.workers.ListByProject(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", workers))
}
