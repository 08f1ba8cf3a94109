package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/service"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles subscriber registration
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Registered", result))
}

// Login handles credential login
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Logged in", result))
}

// Me returns the current user with a freshly loaded role
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", user.ToResponse()))
}

// SetupOwner promotes the caller to platform owner; works once
// @Router /auth/setup-owner [post]
func (h *AuthHandler) SetupOwner(c *gin.Context) {
	session := middleware.Session(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
		return
	}
	admin, err := h.auth.SetupOwner(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Owner configured", admin))
}
