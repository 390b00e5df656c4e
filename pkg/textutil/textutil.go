// Package textutil prepares raw file bytes for line-oriented rewriting:
// binary detection, byte order marks, and line-ending normalization.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// utf8BOM is the UTF-8 byte order mark some Windows editors prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// Text is file content decoded for rewriting. Body has no byte order mark
// and uses "\n" line endings.
type Text struct {
	Body string
	BOM  bool
	CRLF bool
}

// Decode strips a leading UTF-8 byte order mark and converts CRLF line
// endings to LF. A file is treated as CRLF when every newline is preceded by
// a carriage return.
func Decode(data []byte) Text {
	var t Text

	if bytes.HasPrefix(data, utf8BOM) {
		t.BOM = true
		data = data[len(utf8BOM):]
	}

	body := string(data)

	lf := strings.Count(body, "\n")
	if lf > 0 && strings.Count(body, "\r\n") == lf {
		t.CRLF = true
		body = strings.ReplaceAll(body, "\r\n", "\n")
	}

	t.Body = body

	return t
}

// Encode restores the byte order mark and line endings recorded in t onto
// body.
func (t Text) Encode(body string) []byte {
	if t.CRLF {
		body = strings.ReplaceAll(body, "\n", "\r\n")
	}

	if !t.BOM {
		return []byte(body)
	}

	out := make([]byte, 0, len(utf8BOM)+len(body))
	out = append(out, utf8BOM...)

	return append(out, body...)
}
