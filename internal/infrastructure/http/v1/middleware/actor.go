package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "greenbook/internal/core/context"
)

const HeaderActor = "X-Actor"

// Actor middleware records who performed the request, for audit trails.
// The ledger runs on a trusted internal network; the header is taken at
// face value and defaults to "system" when absent.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader(HeaderActor); actor != "" {
			ctx := appctx.WithActor(c.Request.Context(), &appctx.Actor{ID: actor})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
