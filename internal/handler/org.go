package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// OrgHandler exposes the caller's organization plus the platform-staff
// administration endpoints.
type OrgHandler struct {
	orgs   *service.OrgService
	limits *service.LimitService
	stats  *service.StatsService
}

func NewOrgHandler(orgs *service.OrgService, limits *service.LimitService, stats *service.StatsService) *OrgHandler {
	return &OrgHandler{orgs: orgs, limits: limits, stats: stats}
}

// Me returns the caller's organization
// @Router /orgs/me [get]
func (h *OrgHandler) Me(c *gin.Context) {
	org, err := h.orgs.Current(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", org))
}

// Usage returns the caller org's current resource counts
// @Router /orgs/me/usage [get]
func (h *OrgHandler) Usage(c *gin.Context) {
	session := middleware.Session(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
		return
	}
	usage, err := h.limits.Usage(c.Request.Context(), session.OrgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", usage))
}

// Dashboard returns the compliance overview
// @Router /orgs/me/dashboard [get]
func (h *OrgHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", stats))
}

// Plans lists the subscription tiers
// @Router /plans [get]
func (h *OrgHandler) Plans(c *gin.Context) {
	plans, err := h.orgs.Plans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", plans))
}

// ListAll returns every organization; platform staff only. Optional ?status=
// @Router /admin/orgs [get]
func (h *OrgHandler) ListAll(c *gin.Context) {
	orgs, err := h.orgs.ListAll(c.Request.Context(), middleware.Session(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", orgs))
}

type orgStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus suspends or reactivates an organization; platform staff only
// @Router /admin/orgs/:id/status [put]
func (h *OrgHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req orgStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if err := h.orgs.SetStatus(c.Request.Context(), middleware.Session(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Organization updated", nil))
}
