package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/model"
	"obradoc/internal/service"
	"obradoc/pkg/util"
)

// respondError maps service sentinels onto HTTP status codes. Backend
// failures keep their operator message but never leak the cause.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, model.NewErrorResponse("permission denied", ""))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.NewErrorResponse(err.Error(), ""))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
	default:
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse("internal error", ""))
	}
}

// parseHexForm parses a form field as an ObjectID.
func parseHexForm(c *gin.Context, field string) (primitive.ObjectID, error) {
	return util.ParseObjectID(c.PostForm(field))
}

// pathID parses the named path parameter as an ObjectID, responding with 400
// on garbage.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := util.ParseObjectID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid "+name, ""))
		return primitive.NilObjectID, false
	}
	return id, true
}
