// Package urlcodec reproduces the JavaScript btoa(encodeURIComponent(...))
// encoding used by the shareable URL formats, so payloads round-trip between
// this library and the web client byte for byte.
package urlcodec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// encodeURIComponent leaves these characters unescaped, beyond the
// alphanumerics. Everything else becomes %XX escapes of its UTF-8 bytes.
const unreserved = "-_.!~*'()"

// Encode percent-escapes s the way encodeURIComponent does, then base64s it.
func Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent(s)))
}

// Decode reverses Encode. It fails on malformed base64 or percent escapes.
func Decode(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	out, err := unescapeComponent(string(raw))
	if err != nil {
		return "", err
	}
	return out, nil
}

func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range []byte(s) {
		if isUnescaped(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

func unescapeComponent(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated percent escape at offset %d", i)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("invalid percent escape %q", s[i:i+3])
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func isUnescaped(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte(unreserved, c) >= 0
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
