package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emonxxx11/filegate/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var authTestKey = []byte("0123456789abcdef0123456789abcdef")

func newAuthRouter(svc token.Service) *gin.Engine {
	auth := NewAuth(zap.NewNop().Sugar(), svc)
	r := gin.New()
	r.GET("/protected", auth.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client": GetClientID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	svc := token.NewHMACService(authTestKey, time.Hour)
	r := newAuthRouter(svc)

	get := func(authHeader string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set(AuthHeaderKey, authHeader)
		}
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing authorization header", func(t *testing.T) {
		rec := get("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := get("Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty bearer", func(t *testing.T) {
		rec := get("Bearer ")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := get("Bearer not-a-token")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid token attaches client identity", func(t *testing.T) {
		tok, err := svc.Issue("c1")
		require.NoError(t, err)

		rec := get("Bearer " + tok)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"client":"c1"}`, rec.Body.String())
	})

	t.Run("invalid failure modes share one body", func(t *testing.T) {
		tampered := get("Bearer not-a-token")
		crossKey := func() *httptest.ResponseRecorder {
			other := token.NewHMACService([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
			tok, err := other.Issue("c1")
			require.NoError(t, err)
			return get("Bearer " + tok)
		}()
		assert.Equal(t, tampered.Body.String(), crossKey.Body.String())
		assert.Equal(t, tampered.Code, crossKey.Code)
	})
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	now := time.Now()
	clock := now
	svc := token.NewHMACService(authTestKey, time.Minute, token.WithClock(func() time.Time { return clock }))
	r := newAuthRouter(svc)

	tok, err := svc.Issue("c1")
	require.NoError(t, err)

	clock = now.Add(2 * time.Minute)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+tok)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddlewarePassesOptions(t *testing.T) {
	svc := token.NewHMACService(authTestKey, time.Hour)
	auth := NewAuth(zap.NewNop().Sugar(), svc)
	r := gin.New()
	r.OPTIONS("/protected", auth.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetClientIDWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetClientID(c))
}
