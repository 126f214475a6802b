package codec

import (
	"time"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// TimeRFC3339 returns a Codec that carries time.Time values as RFC3339 text.
// Decode accepts both the plain and the fractional-second forms; Encode emits
// the canonical UTC form with fractional seconds trimmed to what the value
// actually carries.
func TimeRFC3339() ocsigenserver.Codec[time.Time] {
	return rfc3339Codec{}
}

type rfc3339Codec struct{}

func (rfc3339Codec) Encode(v time.Time) (string, error) {
	return formatRFC3339Canonical(v), nil
}

func (rfc3339Codec) Decode(raw string) (time.Time, error) {
	return parseRFC3339(raw)
}

// parseRFC3339 accepts RFC3339 with or without fractional seconds.
func parseRFC3339(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// formatRFC3339Canonical renders t normalized to UTC.
func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
