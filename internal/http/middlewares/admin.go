package middlewares

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/routegraph/internal/common"
	"github.com/hxuan190/routegraph/internal/http/httputil"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminAuthMiddleware rejects requests without the configured admin token.
// An empty token disables every admin route.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			httputil.HttpError(c, common.HTTPErrorForbidden("admin api disabled"))
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httputil.HttpError(c, common.HTTPErrorUnauthorized("invalid admin token"))
			return
		}
		c.Next()
	}
}
