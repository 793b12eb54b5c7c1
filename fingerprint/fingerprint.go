// Package fingerprint derives short change-detection keys from text.
//
// The fingerprint is a fast equality proxy, not a content-addressed
// identity: collisions are possible and accepted. Callers that need a
// stronger guarantee must compare the underlying text themselves.
package fingerprint

import (
	"strconv"
	"unicode/utf16"
)

// Hash returns the fingerprint of text: a rolling hash accumulated as
// hash = hash*31 + code over UTF-16 code units, wrapping at 32-bit signed
// boundaries, encoded in base 36. Deterministic and pure. The empty string
// hashes to "0".
func Hash(text string) string {
	var h int32
	for _, code := range utf16.Encode([]rune(text)) {
		h = h*31 + int32(code)
	}
	return strconv.FormatInt(int64(h), 36)
}
