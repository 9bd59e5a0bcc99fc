package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emonxxx11/filegate/pkg/apiresponses"
	"github.com/emonxxx11/filegate/pkg/metrics"
	"github.com/emonxxx11/filegate/pkg/token"
)

const (
	AuthHeaderKey = "Authorization"

	clientIDKey = "client_id"
)

// AuthHandler verifies bearer tokens and attaches the authenticated
// client identity to the request context. Every protected route goes
// through Middleware; there is no bypass path.
type AuthHandler struct {
	tokens token.Service
	log    *zap.SugaredLogger
}

func NewAuth(log *zap.SugaredLogger, tokens token.Service) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		log:    log,
	}
}

func (a *AuthHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		authHeader := c.GetHeader(AuthHeaderKey)
		// delete the header to avoid logging it by accident
		c.Request.Header.Del(AuthHeaderKey)

		bearer, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || bearer == "" {
			metrics.TokenVerifications.WithLabelValues("missing").Inc()
			apiresponses.RespondTokenRequired(c)
			c.Abort()
			return
		}

		clientID, err := a.tokens.Verify(bearer)
		if err != nil {
			metrics.TokenVerifications.WithLabelValues("invalid").Inc()
			a.log.Debugw("token verification failed", "request_id", GetRequestID(c))
			apiresponses.RespondInvalidToken(c)
			c.Abort()
			return
		}

		metrics.TokenVerifications.WithLabelValues("success").Inc()
		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// GetClientID returns the authenticated client identifier from the Gin
// context. The auth middleware must have run first.
func GetClientID(c *gin.Context) string {
	if v, ok := c.Get(clientIDKey); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}
	return ""
}
