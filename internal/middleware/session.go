package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medquizai/medquiz-backend/internal/response"
	"github.com/medquizai/medquiz-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for session claims.
	ContextKeyClaims = "claims"
	// HeaderClientID identifies the device before any token exists.
	HeaderClientID = "X-Client-ID"
)

// RequireSession validates the bearer token and then re-checks the stored
// authorization record. The token alone is never enough: if the record was
// purged or has expired, the request is rejected and the client goes back to
// the gate.
func RequireSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		session := authService.CheckSession(c.Request.Context(), claims.ClientID)
		if !session.Authorized {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireSessionWS validates the token from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot send headers.
func RequireSessionWS(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the session claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetClientID returns the client identity for the request: claims when
// authenticated, the X-Client-ID header otherwise.
func GetClientID(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.ClientID
	}
	return strings.TrimSpace(c.GetHeader(HeaderClientID))
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	return authService.ValidateToken(tokenStr)
}
