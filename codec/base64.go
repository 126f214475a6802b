package codec

import (
	"encoding/base64"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

// BytesBase64 returns a Codec that carries raw bytes as base64 text. Encode
// uses the unpadded URL-safe alphabet so values survive query strings without
// escaping; Decode also accepts padded input.
func BytesBase64() ocsigenserver.Codec[[]byte] {
	return base64Codec{}
}

type base64Codec struct{}

func (base64Codec) Encode(v []byte) (string, error) {
	return base64.RawURLEncoding.EncodeToString(v), nil
}

func (base64Codec) Decode(raw string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(raw)
}
