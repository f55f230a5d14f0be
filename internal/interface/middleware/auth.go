package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/response"
)

const (
	CtxUserIDKey      = "userID"
	CtxTokenIDKey     = "tokenID"
	CtxTokenExpiryKey = "tokenExpiry"
)

// Denylist reports token ids revoked by logout.
type Denylist interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the session token and sets userID, tokenID and tokenExpiry
// in the Gin context. The token is read from the "token" cookie, then from an
// Authorization bearer header. A nil denylist skips the revocation check; a
// denylist that errors rejects the request.
func Auth(jwt *helpers.JWTManager, denylist Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "please login first", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				response.Abort(c, http.StatusServiceUnavailable, "session check unavailable", nil)
				return
			}
			if revoked {
				response.Abort(c, http.StatusUnauthorized, "session ended, please login again", nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxTokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.TokenCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func UserID(c *gin.Context) string { return c.GetString(CtxUserIDKey) }

func TokenID(c *gin.Context) string { return c.GetString(CtxTokenIDKey) }

func TokenExpiry(c *gin.Context) time.Time { return c.GetTime(CtxTokenExpiryKey) }
