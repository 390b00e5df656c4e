package rewrite

import (
	"regexp"
	"strings"
)

// PassUnusedVars is the name of the unused-variable heuristics pass.
const PassUnusedVars = "unused-vars"

var (
	// const [value, setValue] = useState<T | null>(null);
	nullStateDecl = regexp.MustCompile(
		`^(\s*)const \[\s*([A-Za-z_$][\w$]*)\s*,\s*(set\w+)\s*\] = (useState.*?null\);)(\s*)$`)

	// .map((item, index) =>
	mapIndexParam = regexp.MustCompile(`\.map\(\(\s*([A-Za-z_$][\w$]*)\s*, index\) => `)
)

// UnusedVarsPass handles two narrow unused-variable patterns on single lines:
// state setters of `useState(...null)` declarations that are never called, and
// the `index` parameter of one-line `.map` callbacks that never read it.
func UnusedVarsPass(_ Policy) Pass {
	return Pass{
		Name:        PassUnusedVars,
		Description: "drop unused state setters and prefix unused map indexes",
		Apply: func(file SourceFile) string {
			content := pruneNullState(file.Content)

			return prefixMapIndexes(content)
		},
	}
}

func pruneNullState(content string) string {
	if !strings.Contains(content, "useState") {
		return content
	}

	lines := strings.Split(content, "\n")

	var names []string

	for _, line := range lines {
		if m := nullStateDecl.FindStringSubmatch(line); m != nil {
			names = append(names, m[2], m[3])
		}
	}

	if len(names) == 0 {
		return content
	}

	usage := ScanUsage(content, names...)
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		m := nullStateDecl.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)

			continue
		}

		indent, value, setter, init, trail := m[1], m[2], m[3], m[4], m[5]

		switch {
		case usage.UsedOutside(setter, line):
			out = append(out, line)
		case usage.UsedOutside(value, line):
			out = append(out, indent+"const ["+value+"] = "+init+trail)
			changed = true
		default:
			changed = true
		}
	}

	if !changed {
		return content
	}

	return strings.Join(out, "\n")
}

func prefixMapIndexes(content string) string {
	if !strings.Contains(content, ", index) => ") {
		return content
	}

	lines := strings.Split(content, "\n")
	changed := false

	for i, line := range lines {
		matches := mapIndexParam.FindAllStringIndex(line, -1)

		for j := len(matches) - 1; j >= 0; j-- {
			start, end := matches[j][0], matches[j][1]
			rest := line[end:]

			if strings.HasPrefix(strings.TrimSpace(rest), "{") || countWord(rest, "index") > 0 {
				continue
			}

			head := strings.Replace(line[start:end], ", index)", ", _index)", 1)
			line = line[:start] + head + rest
			changed = true
		}

		lines[i] = line
	}

	if !changed {
		return content
	}

	return strings.Join(lines, "\n")
}
