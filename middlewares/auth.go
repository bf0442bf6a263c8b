package middlewares

import (
	"strings"

	"foodcart/pkg/apperr"
	"foodcart/pkg/resp"
	"foodcart/utils"

	"github.com/gin-gonic/gin"
)

// CartOwner binds the caller's identity to the request context for routes
// under /api/cart/:userId.
//
// With an empty secret nothing is verified and the path user id is taken
// as-is. Otherwise a bearer token (or ?token= for websockets) must verify
// and its subject must equal the path user id.
func CartOwner(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathUser := c.Param("userId")
		if pathUser == "" {
			resp.BadRequest(c, "missing user id")
			return
		}

		if secret == "" {
			bind(c, pathUser)
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			resp.Error(c, apperr.ErrUnauthorized.Withf("missing token"))
			return
		}
		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			resp.Error(c, apperr.ErrUnauthorized.Withf("invalid token"))
			return
		}
		if claims.Subject != pathUser {
			resp.Error(c, apperr.ErrForbidden.Withf("token does not belong to this cart"))
			return
		}
		bind(c, claims.Subject)
	}
}

func bind(c *gin.Context, userID string) {
	c.Request = c.Request.WithContext(utils.WithUserID(c.Request.Context(), userID))
	c.Set("userId", userID)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}
