package rewrite

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// Kind is the language family of a source file.
type Kind int

// Source kinds.
const (
	KindUnknown Kind = iota
	KindTypeScript
	KindJavaScript
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTypeScript:
		return "typescript"
	case KindJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

var kindByExt = map[string]Kind{
	".ts":  KindTypeScript,
	".tsx": KindTypeScript,
	".mts": KindTypeScript,
	".cts": KindTypeScript,
	".js":  KindJavaScript,
	".jsx": KindJavaScript,
	".mjs": KindJavaScript,
	".cjs": KindJavaScript,
}

// DetectKind classifies a file by extension, falling back to content-based
// language detection for extensions it does not know.
func DetectKind(path string, content []byte) Kind {
	if kind, ok := kindByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return kind
	}

	switch enry.GetLanguage(filepath.Base(path), content) {
	case "TypeScript", "TSX":
		return KindTypeScript
	case "JavaScript", "JSX":
		return KindJavaScript
	default:
		return KindUnknown
	}
}

// SourceFile is one file travelling through the pipeline.
type SourceFile struct {
	Path    string
	Content string
	Kind    Kind
}

// NewSourceFile builds a SourceFile and detects its kind.
func NewSourceFile(path, content string) SourceFile {
	return SourceFile{
		Path:    filepath.ToSlash(path),
		Content: content,
		Kind:    DetectKind(path, []byte(content)),
	}
}

// Pass is a pure text-to-text rewrite targeting one pattern class.
// Apply must return its input unchanged when nothing matches.
type Pass struct {
	Name        string
	Description string
	// Kinds restricts the pass to the listed kinds. Empty means all kinds.
	Kinds []Kind
	Apply func(file SourceFile) string
}

// AppliesTo reports whether the pass runs on files of the given kind.
func (p Pass) AppliesTo(kind Kind) bool {
	return len(p.Kinds) == 0 || slices.Contains(p.Kinds, kind)
}
