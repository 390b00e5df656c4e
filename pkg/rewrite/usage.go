package rewrite

import (
	"regexp"
	"sort"
	"strings"
)

// capitalizedIdent is the lexical rule for "referenced identifier".
var capitalizedIdent = regexp.MustCompile(`\b[A-Z][A-Za-z0-9_]*\b`)

var wholeCapitalizedIdent = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// Usage approximates which identifiers a file references. It over-counts on
// purpose: comments, strings and import lines all contribute.
type Usage struct {
	counts map[string]int
	extra  []string
}

// ScanUsage counts every capitalized identifier in content. Names in extra are
// counted as whole words as well, so lowercase names can be tracked too.
func ScanUsage(content string, extra ...string) Usage {
	usage := Usage{extra: extra}
	usage.counts = usage.tally(content)

	return usage
}

// Has reports whether name occurs at least once.
func (u Usage) Has(name string) bool {
	return u.counts[name] > 0
}

// Count returns the number of occurrences of name.
func (u Usage) Count(name string) int {
	return u.counts[name]
}

// Names returns the sorted set of identifiers seen.
func (u Usage) Names() []string {
	names := make([]string, 0, len(u.counts))
	for name := range u.counts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// UsedOutside reports whether name occurs anywhere other than in line, which
// must be a line of the scanned content.
func (u Usage) UsedOutside(name, line string) bool {
	return u.counts[name] > u.tally(line)[name]
}

func (u Usage) tally(text string) map[string]int {
	counts := make(map[string]int)

	for _, tok := range capitalizedIdent.FindAllString(text, -1) {
		counts[tok]++
	}

	for _, name := range u.extra {
		if name == "" || wholeCapitalizedIdent.MatchString(name) {
			continue
		}

		if n := countWord(text, name); n > 0 {
			counts[name] = n
		}
	}

	return counts
}

// countWord counts occurrences of word in text that are not part of a longer
// identifier.
func countWord(text, word string) int {
	if word == "" {
		return 0
	}

	count := 0

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			break
		}

		start := offset + idx
		end := start + len(word)

		if (start == 0 || !isIdentByte(text[start-1])) && (end == len(text) || !isIdentByte(text[end])) {
			count++
		}

		offset = start + 1
	}

	return count
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
