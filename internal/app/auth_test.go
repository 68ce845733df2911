package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(staticTokens []string, jwtSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(staticTokens, jwtSecret))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func ping(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareDisabledWhenUnconfigured(t *testing.T) {
	router := authRouter(nil, "")
	assert.Equal(t, http.StatusOK, ping(router, "").Code)
}

func TestAuthMiddlewareStaticTokens(t *testing.T) {
	router := authRouter([]string{"token-a", "token-b"}, "")

	assert.Equal(t, http.StatusUnauthorized, ping(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, ping(router, "token-a").Code, "bare token without scheme")
	assert.Equal(t, http.StatusUnauthorized, ping(router, "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, ping(router, "Bearer token-a").Code)
	assert.Equal(t, http.StatusOK, ping(router, "bearer token-b").Code, "scheme is case-insensitive")
}

func TestAuthMiddlewareJWT(t *testing.T) {
	const secret = "test-secret"
	router := authRouter(nil, secret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, ping(router, "Bearer "+signed).Code)

	wrongKey, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, ping(router, "Bearer "+wrongKey).Code)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredSigned, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, ping(router, "Bearer "+expiredSigned).Code)
}
