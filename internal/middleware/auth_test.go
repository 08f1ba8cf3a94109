package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
)

const testSecret = "middleware-test-secret"

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: testSecret}}

	r := gin.New()
	protected := r.Group("/api")
	protected.Use(Auth(cfg))
	protected.GET("/open", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	users := protected.Group("/users")
	users.Use(RequirePermission(auth.CapManageUsers))
	users.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, role auth.Role) string {
	t.Helper()
	user := &model.User{
		ID:    primitive.NewObjectID(),
		Email: "ana@example.com",
		Name:  "Ana",
		Role:  string(role),
		OrgID: primitive.NewObjectID(),
	}
	token, err := auth.SignToken(auth.BuildClaims(user, time.Hour), []byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := testRouter()
	w := doRequest(r, "/api/open", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	r := testRouter()
	w := doRequest(r, "/api/open", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := testRouter()
	w := doRequest(r, "/api/open", signToken(t, auth.RoleViewer))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAcceptsTokenFromQuery(t *testing.T) {
	// Websocket clients pass the token as a query parameter.
	r := testRouter()
	w := doRequest(r, "/api/open?token="+signToken(t, auth.RoleViewer), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniesRoleWithoutCapability(t *testing.T) {
	r := testRouter()
	w := doRequest(r, "/api/users", signToken(t, auth.RoleViewer))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionAllowsRoleWithCapability(t *testing.T) {
	r := testRouter()
	w := doRequest(r, "/api/users", signToken(t, auth.RoleOwner))
	assert.Equal(t, http.StatusOK, w.Code)
}
