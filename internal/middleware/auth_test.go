package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-chat/internal/auth"
	"guardian-chat/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, userID int, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(secret string, monitorOnly bool) *gin.Engine {
	router := gin.New()
	group := router.Group("/", AuthMiddleware(auth.NewTokenValidator(secret)))
	if monitorOnly {
		group.Use(RequireMonitor())
	}
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt("userID"), "role": c.GetString("role")})
	})
	return router
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", 7, models.RoleChild))
	protectedRouter("s3cret", false).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":7`)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	protectedRouter("s3cret", false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong", 7, models.RoleChild))
	protectedRouter("s3cret", false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireMonitorForbidsChild(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", 7, models.RoleChild))
	protectedRouter("s3cret", true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireMonitorAllowsParent(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", 8, models.RoleParent))
	protectedRouter("s3cret", true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
