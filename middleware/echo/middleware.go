package echomw

import (
	"net/http"

	ocsigenserver "github.com/huangered/ocsigenserver"
	"github.com/huangered/ocsigenserver/middleware"
	"github.com/labstack/echo/v4"
)

// Validate decodes the request's flat form via p, stores Decoded[T] in context on success,
// or returns 400 with Issues when decoding fails.
func Validate[T any](p ocsigenserver.Param[T], opt ocsigenserver.DecodeOpt) echo.MiddlewareFunc {
	if opt.Strictness.OnDuplicateKey == 0 && !opt.Presence.Collect {
		opt = middleware.DefaultDecodeOpt()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f, files, err := ocsigenserver.FromRequest(c.Request())
			if err == nil {
				var dv ocsigenserver.Decoded[T]
				dv, err = ocsigenserver.ReconstructWithMeta(c.Request().Context(), p, f, files, opt)
				if err == nil {
					ctx := middleware.ContextWithDecoded(c.Request().Context(), dv)
					c.SetRequest(c.Request().WithContext(ctx))
					return next(c)
				}
			}
			if iss, ok := ocsigenserver.AsIssues(err); ok {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			}
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
	}
}

// GetDecoded fetches Decoded[T] from echo.Context.
func GetDecoded[T any](c echo.Context) (ocsigenserver.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
