// Package textenc decodes raw exchange-file bytes into text.
//
// Survey files arrive as UTF-8, Latin-1, or Windows-1252, usually without a
// declared encoding. Decode sniffs byte-order marks for the Unicode
// encodings and otherwise applies the requested single-byte charmap. The
// "auto" mode assumes Windows-1252 when the bytes are not valid UTF-8, which
// matches how producing software in the field actually behaves.
package textenc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Supported encoding names accepted by Decode.
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "windows-1252"
)

// ErrUnknownEncoding indicates an encoding name Decode does not support.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Decode converts raw file bytes to a string under the named encoding.
//
// A UTF-8 or UTF-16 byte-order mark always wins regardless of the requested
// encoding; producers that emit a BOM are declaring the encoding themselves.
// Otherwise the named encoding is applied: "utf-8", "latin-1" (ISO 8859-1),
// "windows-1252", or "auto". Auto mode uses UTF-8 when the bytes validate
// and falls back to Windows-1252.
func Decode(data []byte, encoding string) (string, error) {
	if s, ok := decodeBOM(data); ok {
		return s, nil
	}

	switch normalize(encoding) {
	case EncodingUTF8:
		return string(data), nil
	case EncodingLatin1:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding latin-1: %w", err)
		}
		return string(decoded), nil
	case EncodingWindows1252:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding windows-1252: %w", err)
		}
		return string(decoded), nil
	case EncodingAuto, "":
		if utf8.Valid(data) {
			return string(data), nil
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding windows-1252: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
}

// decodeBOM handles byte-order-marked input. Returns ok=false when no BOM is
// present.
func decodeBOM(data []byte) (string, bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), true
	case len(data) >= 2 && (data[0] == 0xFF && data[1] == 0xFE || data[0] == 0xFE && data[1] == 0xFF):
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
	return "", false
}

// normalize folds common aliases onto the canonical encoding names.
func normalize(encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "utf-8", "utf8":
		return EncodingUTF8
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	case "windows-1252", "cp1252", "win-1252":
		return EncodingWindows1252
	case "auto", "":
		return EncodingAuto
	default:
		return strings.ToLower(strings.TrimSpace(encoding))
	}
}
