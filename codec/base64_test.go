package codec

import (
	"bytes"
	"testing"
)

func TestBytesBase64_RoundTrip(t *testing.T) {
	c := BytesBase64()

	in := []byte{0x00, 0xfb, 0xef, 0xff, 0x41}
	s, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if s != "APvv_0E" {
		t.Fatalf("unexpected wire form: %q", s)
	}

	got, err := c.Decode(s)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("roundtrip mismatch: %x != %x", got, in)
	}
}

func TestBytesBase64_AcceptsPaddedInput(t *testing.T) {
	c := BytesBase64()

	got, err := c.Decode("aGk=")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("unexpected bytes: %q", got)
	}
}

func TestBytesBase64_RejectsStandardAlphabet(t *testing.T) {
	c := BytesBase64()

	// '/' belongs to the standard alphabet only.
	if _, err := c.Decode("a/b"); err == nil {
		t.Fatalf("expected error for standard-alphabet input")
	}
}
