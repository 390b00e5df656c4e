package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary_EmptyData(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte{}))
}

func TestIsBinary_PureText(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary([]byte("hello world\n")))
}

func TestIsBinary_NullByte(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte("hello\x00world")))
}

func TestIsBinary_NullAtStart(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte("\x00start")))
}

func TestIsBinary_NullAtSniffBoundary(t *testing.T) {
	t.Parallel()

	// Null byte at exactly position BinarySniffLength-1 should be detected.
	data := make([]byte, BinarySniffLength)
	data[BinarySniffLength-1] = 0x00

	assert.True(t, IsBinary(data))
}

func TestIsBinary_NullBeyondSniffBoundary(t *testing.T) {
	t.Parallel()

	// Null byte beyond the sniff window should NOT be detected.
	data := make([]byte, BinarySniffLength+100)
	for i := range data {
		data[i] = 'a'
	}

	data[BinarySniffLength+50] = 0x00

	assert.False(t, IsBinary(data))
}

func TestDecode_Plain(t *testing.T) {
	t.Parallel()

	text := Decode([]byte("a\nb\n"))

	assert.Equal(t, Text{Body: "a\nb\n"}, text)
	assert.Equal(t, []byte("a\nb\n"), text.Encode(text.Body))
}

func TestDecode_BOMAndCRLF(t *testing.T) {
	t.Parallel()

	raw := []byte("\xEF\xBB\xBFimport a;\r\nrun();\r\n")
	text := Decode(raw)

	assert.True(t, text.BOM)
	assert.True(t, text.CRLF)
	assert.Equal(t, "import a;\nrun();\n", text.Body)
	assert.Equal(t, raw, text.Encode(text.Body))
	assert.Equal(t, []byte("\xEF\xBB\xBFrun();\r\n"), text.Encode("run();\n"))
}

func TestDecode_MixedLineEndingsKept(t *testing.T) {
	t.Parallel()

	raw := []byte("a\r\nb\nc\r\n")
	text := Decode(raw)

	assert.False(t, text.CRLF)
	assert.Equal(t, string(raw), text.Body)
	assert.Equal(t, raw, text.Encode(text.Body))
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	text := Decode(nil)

	assert.Equal(t, Text{}, text)
	assert.Empty(t, text.Encode(""))
}
