package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// InvitationHandler exposes issuing and redeeming member invitations.
type InvitationHandler struct {
	invitations *service.InvitationService
}

func NewInvitationHandler(invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// Create issues an invitation
// @Router /invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var input service.InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	result, err := h.invitations.Create(c.Request.Context(), middleware.Session(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Invitation created", result))
}

// List returns the organization's invitations
// @Router /invitations [get]
func (h *InvitationHandler) List(c *gin.Context) {
	invitations, err := h.invitations.List(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", invitations))
}

type acceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// Accept redeems an invitation token; no auth required
// @Router /invitations/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	user, err := h.invitations.Accept(c.Request.Context(), req.Token, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Invitation accepted", user.ToResponse()))
}
