package middleware

import (
	"context"
	"net/http"

	j "github.com/goccy/go-json"
	ocsigenserver "github.com/huangered/ocsigenserver"
)

// ctxKeyDecoded keys a stored Decoded[T]; every T instantiates its own key.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, dv ocsigenserver.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, dv)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (ocsigenserver.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(ocsigenserver.Decoded[T])
	return v, ok
}

// DefaultDecodeOpt returns a recommended default for HTTP boundaries.
// - Duplicate keys of single-valued parameters are errors
// - Presence is collected for preserve-friendly semantics
func DefaultDecodeOpt() ocsigenserver.DecodeOpt {
	return ocsigenserver.DecodeOpt{
		Strictness: ocsigenserver.Strictness{OnDuplicateKey: ocsigenserver.Error},
		Presence:   ocsigenserver.PresenceOpt{Collect: true},
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []ocsigenserver.Issue) map[string]any {
	out := make([]map[string]any, 0, len(issues))
	for _, it := range issues {
		m := map[string]any{"code": it.Code, "message": it.Message}
		if it.Name != "" {
			m["name"] = it.Name
		}
		if it.Raw != "" {
			m["raw"] = it.Raw
		}
		out = append(out, m)
	}
	return map[string]any{"issues": out}
}

// Validate wraps an http.Handler: the request's flat form is decoded
// through p and attached to the request context as a Decoded[T]; decode
// failures answer 400 with the issue payload before the handler runs.
// A zero opt selects DefaultDecodeOpt.
func Validate[T any](p ocsigenserver.Param[T], opt ocsigenserver.DecodeOpt, next http.Handler) http.Handler {
	if opt.Strictness.OnDuplicateKey == 0 && !opt.Presence.Collect {
		opt = DefaultDecodeOpt()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, files, err := ocsigenserver.FromRequest(r)
		if err == nil {
			var dv ocsigenserver.Decoded[T]
			dv, err = ocsigenserver.ReconstructWithMeta(r.Context(), p, f, files, opt)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), dv)))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if iss, ok := ocsigenserver.AsIssues(err); ok {
			_ = j.NewEncoder(w).Encode(ErrorPayload(iss))
			return
		}
		_ = j.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
	})
}
