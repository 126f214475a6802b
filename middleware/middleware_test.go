package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ocsigenserver "github.com/huangered/ocsigenserver"
	"github.com/huangered/ocsigenserver/middleware"
	p "github.com/huangered/ocsigenserver/param"
)

func TestValidate_DecodesAndStoresInContext(t *testing.T) {
	desc := p.Prod(p.Int("year"), p.String("q"))

	var got ocsigenserver.Pair[int, string]
	var okInCtx bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dv, ok := middleware.DecodedFromContext[ocsigenserver.Pair[int, string]](r.Context())
		okInCtx = ok
		if ok {
			got = dv.Value
			if dv.Presence == nil {
				t.Error("expected presence metadata with the default options")
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	h := middleware.Validate(desc, ocsigenserver.DecodeOpt{}, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?year=2024&q=pelican", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !okInCtx {
		t.Fatal("decoded value not found in context")
	}
	if got.First != 2024 || got.Second != "pelican" {
		t.Errorf("decoded %+v", got)
	}
}

func TestValidate_RejectsBadInput(t *testing.T) {
	desc := p.Int("year")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran despite a decode failure")
	})

	h := middleware.Validate(desc, ocsigenserver.DecodeOpt{}, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?year=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, ocsigenserver.CodeInvalidValue) || !strings.Contains(body, "year") {
		t.Errorf("body = %s", body)
	}
}

func TestValidate_ZeroOptRejectsDuplicateKeys(t *testing.T) {
	desc := p.Int("year")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran despite a duplicate key")
	})

	h := middleware.Validate(desc, ocsigenserver.DecodeOpt{}, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?year=1&year=2", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), ocsigenserver.CodeDuplicateKey) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestValidate_ExplicitOptKeptAsGiven(t *testing.T) {
	desc := p.Int("year")
	ran := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		dv, ok := middleware.DecodedFromContext[int](r.Context())
		if !ok {
			t.Fatal("decoded value not found in context")
		}
		if dv.Value != 1 {
			t.Errorf("value = %d, want the first occurrence", dv.Value)
		}
	})

	opt := ocsigenserver.DecodeOpt{
		Strictness: ocsigenserver.Strictness{OnDuplicateKey: ocsigenserver.Ignore},
		Presence:   ocsigenserver.PresenceOpt{Collect: true},
	}
	h := middleware.Validate(desc, opt, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?year=1&year=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !ran {
		t.Fatal("handler did not run")
	}
}

func TestErrorPayload_Projection(t *testing.T) {
	payload := middleware.ErrorPayload([]ocsigenserver.Issue{
		{Name: "year", Code: ocsigenserver.CodeInvalidValue, Message: "not an integer", Raw: "abc"},
		{Code: ocsigenserver.CodeMissingParameter, Message: "missing"},
	})
	issues, ok := payload["issues"].([]map[string]any)
	if !ok {
		t.Fatalf("payload = %#v", payload)
	}
	if len(issues) != 2 {
		t.Fatalf("len = %d", len(issues))
	}
	if issues[0]["name"] != "year" || issues[0]["raw"] != "abc" {
		t.Errorf("first issue = %#v", issues[0])
	}
	if _, present := issues[1]["name"]; present {
		t.Errorf("second issue should omit empty name: %#v", issues[1])
	}
}
