package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ocsigenserver "github.com/huangered/ocsigenserver"
	"github.com/huangered/ocsigenserver/middleware"
)

// Validate decodes the incoming request through p with opt (or DefaultDecodeOpt when zero value),
// stores Decoded[T] in the context, and on decode failure returns 400 with Issues payload.
func Validate[T any](p ocsigenserver.Param[T], opt ocsigenserver.DecodeOpt) gin.HandlerFunc {
	if opt.Strictness.OnDuplicateKey == 0 && !opt.Presence.Collect {
		opt = middleware.DefaultDecodeOpt()
	}
	return func(c *gin.Context) {
		f, files, err := ocsigenserver.FromRequest(c.Request)
		if err == nil {
			var dv ocsigenserver.Decoded[T]
			dv, err = ocsigenserver.ReconstructWithMeta(c.Request.Context(), p, f, files, opt)
			if err == nil {
				c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), dv))
				c.Next()
				return
			}
		}
		if iss, ok := ocsigenserver.AsIssues(err); ok {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			c.Abort()
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
	}
}

// GetDecoded fetches Decoded[T] from gin.Context.
func GetDecoded[T any](c *gin.Context) (ocsigenserver.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
