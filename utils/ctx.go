package utils

import (
	"context"

	"github.com/gin-gonic/gin"
)

type userIDKey struct{}

// WithUserID binds the authenticated user to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// CurrentUserID reads the identity the auth middleware put on the request.
func CurrentUserID(c *gin.Context) string {
	id, _ := UserIDFrom(c.Request.Context())
	return id
}
