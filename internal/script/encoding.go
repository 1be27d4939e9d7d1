package script

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type EncodingResult struct {
	Encoding string
	HasBOM   bool
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding recognizes UTF-8 and UTF-16 byte order marks, plain UTF-8,
// and falls back to Windows-1252 for anything else.
func DetectEncoding(data []byte) EncodingResult {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingResult{Encoding: "utf-8", HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingResult{Encoding: "utf-16le", HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingResult{Encoding: "utf-16be", HasBOM: true}
	case utf8.Valid(data):
		return EncodingResult{Encoding: "utf-8"}
	default:
		return EncodingResult{Encoding: "windows-1252"}
	}
}

// DecodeToUTF8 converts script bytes to UTF-8 text without a BOM.
func DecodeToUTF8(data []byte) (string, EncodingResult, error) {
	result := DetectEncoding(data)

	var enc encoding.Encoding
	switch result.Encoding {
	case "utf-8":
		return string(bytes.TrimPrefix(data, bomUTF8)), result, nil
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		enc = charmap.Windows1252
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", result, err
	}
	return string(decoded), result, nil
}
