package rewrite

import (
	"slices"
	"strings"
)

// PassUnusedImports is the name of the dead-import pruning pass.
const PassUnusedImports = "unused-imports"

// UnusedImportsPass removes deny-listed named imports that are not referenced
// anywhere outside their own import line. Only single-line brace imports are
// inspected.
func UnusedImportsPass(policy Policy) Pass {
	deny := make(map[string]bool, len(policy.DenyList))
	for _, name := range policy.DenyList {
		deny[name] = true
	}

	return Pass{
		Name:        PassUnusedImports,
		Description: "drop deny-listed imports that are never referenced",
		Apply: func(file SourceFile) string {
			return pruneImports(file.Content, deny, policy.DenyList)
		},
	}
}

func pruneImports(content string, deny map[string]bool, denyList []string) string {
	if !strings.Contains(content, "import") {
		return content
	}

	lines := strings.Split(content, "\n")
	usage := ScanUsage(content, slices.Concat(denyList, deniedAliases(lines, deny))...)
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		rewritten, keep := pruneImportLine(line, deny, usage)
		if !keep || rewritten != line {
			changed = true
		}

		if keep {
			out = append(out, rewritten)
		}
	}

	if !changed {
		return content
	}

	return strings.Join(out, "\n")
}

// deniedAliases returns the local names that deny-listed imports are bound
// to under `as`. Lowercase aliases are invisible to the capitalized-token
// scan, so they are tracked explicitly.
func deniedAliases(lines []string, deny map[string]bool) []string {
	var aliases []string

	for _, line := range lines {
		bi, ok := parseBraceImport(line)
		if !ok {
			continue
		}

		for _, raw := range strings.Split(bi.inner, ",") {
			spec := parseSpecifier(raw)
			if deny[spec.imported] && spec.local != spec.imported {
				aliases = append(aliases, spec.local)
			}
		}
	}

	return aliases
}

// braceImport is a single-line `import X, { a, b as c } from 'm';` split
// around its braces.
type braceImport struct {
	head  string // everything before '{'
	inner string // between the braces
	tail  string // everything after '}'
}

func parseBraceImport(line string) (braceImport, bool) {
	if !strings.HasPrefix(strings.TrimSpace(line), "import ") {
		return braceImport{}, false
	}

	open := strings.Index(line, "{")
	if open < 0 {
		return braceImport{}, false
	}

	closeIdx := strings.Index(line[open:], "}")
	if closeIdx < 0 {
		return braceImport{}, false
	}

	closeIdx += open

	if !strings.Contains(line[closeIdx:], "from") {
		return braceImport{}, false
	}

	return braceImport{
		head:  line[:open],
		inner: line[open+1 : closeIdx],
		tail:  line[closeIdx+1:],
	}, true
}

// hasDefaultBinding reports whether the head binds a default or namespace
// import next to the braces, as in `import React, {`.
func (bi braceImport) hasDefaultBinding() bool {
	fields := strings.Fields(strings.TrimRight(strings.TrimSpace(bi.head), ","))
	if len(fields) > 0 && fields[0] == "import" {
		fields = fields[1:]
	}

	if len(fields) > 0 && fields[0] == "type" {
		fields = fields[1:]
	}

	return len(fields) > 0
}

// specifier is one entry of a brace clause.
type specifier struct {
	raw      string
	imported string
	local    string
}

func parseSpecifier(raw string) specifier {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "type ")

	imported, local, hasAlias := strings.Cut(text, " as ")
	imported = strings.TrimSpace(imported)

	if !hasAlias {
		local = imported
	}

	return specifier{raw: strings.TrimSpace(raw), imported: imported, local: strings.TrimSpace(local)}
}

// pruneImportLine returns the rewritten line and whether it should be kept.
func pruneImportLine(line string, deny map[string]bool, usage Usage) (string, bool) {
	bi, ok := parseBraceImport(line)
	if !ok {
		return line, true
	}

	var (
		kept    []string
		removed int
		total   int
	)

	for _, raw := range strings.Split(bi.inner, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		total++

		spec := parseSpecifier(raw)
		if deny[spec.imported] && !usage.UsedOutside(spec.local, line) {
			removed++

			continue
		}

		kept = append(kept, spec.raw)
	}

	switch {
	case total == 0 && !bi.hasDefaultBinding():
		// `import { } from 'm';` binds nothing.
		return "", false
	case removed == 0:
		return line, true
	case len(kept) > 0:
		pad := ""
		if strings.HasPrefix(bi.inner, " ") {
			pad = " "
		}

		return bi.head + "{" + pad + strings.Join(kept, ", ") + pad + "}" + bi.tail, true
	case bi.hasDefaultBinding():
		return strings.TrimRight(bi.head, ", ") + bi.tail, true
	default:
		return "", false
	}
}
