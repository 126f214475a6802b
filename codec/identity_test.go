package codec_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	ocsigenserver "github.com/huangered/ocsigenserver"
	"github.com/huangered/ocsigenserver/codec"
	p "github.com/huangered/ocsigenserver/param"
)

func TestIdentity_PassesStringsThrough(t *testing.T) {
	id := codec.Identity()

	dv, err := id.Decode("asdf")
	if err != nil || dv != "asdf" {
		t.Fatalf("decode err=%v v=%q", err, dv)
	}
	ev, err := id.Encode(dv)
	if err != nil || ev != "asdf" {
		t.Fatalf("encode err=%v v=%q", err, ev)
	}
}

func TestFunc_BuildsCodecFromClosures(t *testing.T) {
	// version numbers carried as "v<n>"
	c := codec.Func(
		func(v int) (string, error) { return "v" + strconv.Itoa(v), nil },
		func(raw string) (int, error) {
			rest, ok := strings.CutPrefix(raw, "v")
			if !ok {
				return 0, fmt.Errorf("missing v prefix in %q", raw)
			}
			return strconv.Atoi(rest)
		},
	)

	s, err := c.Encode(12)
	if err != nil || s != "v12" {
		t.Fatalf("encode err=%v v=%q", err, s)
	}
	n, err := c.Decode("v12")
	if err != nil || n != 12 {
		t.Fatalf("decode err=%v v=%d", err, n)
	}
	if _, err := c.Decode("12"); err == nil {
		t.Fatalf("expected error for missing prefix")
	}
}

func TestUser_CarriesTimeThroughQueryPairs(t *testing.T) {
	when := p.User("when", codec.TimeRFC3339())

	v := time.Date(2025, 3, 9, 12, 30, 0, 0, time.UTC)
	f, err := ocsigenserver.Construct(when, v)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(f.Pairs) != 1 || f.Pairs[0].Key != "when" || f.Pairs[0].Value != "2025-03-09T12:30:00Z" {
		t.Fatalf("unexpected pairs: %+v", f.Pairs)
	}

	got, err := ocsigenserver.Reconstruct(context.Background(), when, f, nil)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("roundtrip mismatch: %v != %v", got, v)
	}
}

func TestUser_MalformedTimeNamesTheParameter(t *testing.T) {
	when := p.User("when", codec.TimeRFC3339())

	f := ocsigenserver.Flat{Pairs: []ocsigenserver.KV{{Key: "when", Value: "not-a-time"}}}
	_, err := ocsigenserver.Reconstruct(context.Background(), when, f, nil)
	iss, ok := ocsigenserver.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != ocsigenserver.CodeInvalidValue || iss[0].Name != "when" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}
