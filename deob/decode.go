package deob

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrInvalidUTF8 is returned by DecodeText in strict mode.
var ErrInvalidUTF8 = errors.New("invalid utf-8")

// DecodeBase64 decodes a literal the way System.Convert::FromBase64String
// does: whitespace is ignored and padding is required.
func DecodeBase64(literal string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, literal)
	return base64.StdEncoding.DecodeString(cleaned)
}

// DecodeText turns decoded bytes into a string. Valid UTF-8 is used as is.
// Otherwise the bytes are read as ISO-8859-1, which maps every byte to a
// code point and never fails, unless strict is set.
func DecodeText(b []byte, strict bool) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if strict {
		return "", ErrInvalidUTF8
	}
	return charmap.ISO8859_1.NewDecoder().String(string(b))
}
