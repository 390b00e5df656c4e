package rewrite

import (
	"sort"
	"strings"
)

// PassImportOrder is the name of the import reclassification pass.
const PassImportOrder = "import-order"

// ImportStatement is one import of the leading import region. Text may span
// several physical lines when the statement's braces do.
type ImportStatement struct {
	Text     string
	Category Category
}

// ImportOrderPass regroups the leading import region by category and sorts
// each group. Everything after the region is emitted untouched.
func ImportOrderPass(policy Policy) Pass {
	rules := policy.CategoryRules

	return Pass{
		Name:        PassImportOrder,
		Description: "group and sort the leading import block",
		Apply: func(file SourceFile) string {
			return ReclassifyImports(file.Content, rules)
		},
	}
}

// ParseImportRegion scans the leading import region of content. It returns
// the statements found and the index of the first line after the region, or
// len(lines) when the region runs to the end. ok is false when a statement is
// still open when the input ends.
func ParseImportRegion(lines []string, rules []CategoryRule) (stmts []ImportStatement, rest int, ok bool) {
	var pending []string

	for i, line := range lines {
		if pending != nil {
			pending = append(pending, line)

			text := strings.Join(pending, "\n")
			if braceDepth(text) <= 0 {
				stmts = append(stmts, ImportStatement{Text: text, Category: Classify(text, rules)})
				pending = nil
			}

			continue
		}

		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "import "):
			if braceDepth(line) > 0 {
				pending = []string{line}

				continue
			}

			stmts = append(stmts, ImportStatement{Text: line, Category: Classify(line, rules)})
		default:
			return stmts, i, true
		}
	}

	return stmts, len(lines), pending == nil
}

// ReclassifyImports rewrites the leading import region of content: statements
// are bucketed by the first matching rule, buckets are emitted in the fixed
// category order with one blank line between them, each bucket is sorted, and
// one blank line separates the region from the rest of the file.
func ReclassifyImports(content string, rules []CategoryRule) string {
	lines := strings.Split(content, "\n")

	stmts, rest, ok := ParseImportRegion(lines, rules)
	if !ok || len(stmts) == 0 {
		return content
	}

	buckets := make(map[Category][]string, len(emissionOrder))
	for _, stmt := range stmts {
		buckets[stmt.Category] = append(buckets[stmt.Category], stmt.Text)
	}

	out := make([]string, 0, len(lines)+len(emissionOrder))

	for _, cat := range emissionOrder {
		group := buckets[cat]
		if len(group) == 0 {
			continue
		}

		if len(out) > 0 {
			out = append(out, "")
		}

		sort.Strings(group)
		out = append(out, group...)
	}

	out = append(out, "")
	out = append(out, lines[rest:]...)

	return strings.Join(out, "\n")
}

func braceDepth(text string) int {
	return strings.Count(text, "{") - strings.Count(text, "}")
}
