package utils

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding decodes UTF-8 and replaces invalid sequences with U+FFFD.
var DefaultEncoding encoding.Encoding = unicode.UTF8

// TrimTrailingZeros drops the run of 0x00 bytes at the end of bs.
// Leading and embedded zeros are kept.
func TrimTrailingZeros(bs []byte) []byte {
	n := len(bs)
	for n > 0 && bs[n-1] == 0 {
		n--
	}
	return bs[:n]
}

// BytesToString trims trailing zeros and decodes the rest with enc.
// It never fails: undecodable input degrades to replacement characters.
func BytesToString(enc encoding.Encoding, bs []byte) string {
	if enc == nil {
		enc = DefaultEncoding
	}
	bs = TrimTrailingZeros(bs)

	s, _, err := transform.Bytes(enc.NewDecoder(), bs)
	if err != nil {
		return strings.ToValidUTF8(string(bs), "\uFFFD")
	}
	return string(s)
}
