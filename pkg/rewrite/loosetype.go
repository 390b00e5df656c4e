package rewrite

import (
	"regexp"
	"strings"
)

// PassLooseTypes is the name of the loose-type narrowing pass.
const PassLooseTypes = "loose-types"

var (
	recordOfAny  = regexp.MustCompile(`: Record<string, any>`)
	arrayOfAny   = regexp.MustCompile(`: any\[\]`)
	paramOfAny   = regexp.MustCompile(`\(([^:()\n]+): any\)`)
	genericOfAny = regexp.MustCompile(`<any>`)
)

// assertionFollow lists the bytes allowed right after `as any`.
const assertionFollow = ",; \t\r\n)"

// statusFollow lists the bytes allowed right after `status as any`.
const statusFollow = ",; \t\r\n)}"

// LooseTypesPass replaces `any` in a fixed set of positions with `unknown`,
// and `status as any` with the policy's closed set of status literals.
// It never checks that the narrower type fits; the type checker does.
func LooseTypesPass(policy Policy) Pass {
	statusRepl := "status as " + policy.statusUnion()

	return Pass{
		Name:        PassLooseTypes,
		Description: "narrow `any` annotations and assertions to `unknown`",
		Kinds:       []Kind{KindTypeScript},
		Apply: func(file SourceFile) string {
			content := file.Content

			if len(policy.StatusLiterals) > 0 {
				content = replaceDelimited(content, "status as any", statusRepl, statusFollow, true)
			}

			content = recordOfAny.ReplaceAllLiteralString(content, ": Record<string, unknown>")
			content = arrayOfAny.ReplaceAllLiteralString(content, ": unknown[]")
			content = paramOfAny.ReplaceAllString(content, "($1: unknown)")
			content = replaceDelimited(content, " as any", " as unknown", assertionFollow, false)

			return genericOfAny.ReplaceAllLiteralString(content, "<unknown>")
		},
	}
}

// replaceDelimited replaces occurrences of old that do not continue an
// identifier on the left and are followed by a byte from follow. When atEOF is
// set an occurrence at the very end of s is replaced too.
func replaceDelimited(s, old, repl, follow string, atEOF bool) string {
	if !strings.Contains(s, old) {
		return s
	}

	var out strings.Builder

	last := 0

	for offset := 0; offset < len(s); {
		idx := strings.Index(s[offset:], old)
		if idx < 0 {
			break
		}

		start := offset + idx
		end := start + len(old)
		offset = start + 1

		if start > 0 && isIdentByte(old[0]) && isIdentByte(s[start-1]) {
			continue
		}

		if end == len(s) {
			if !atEOF {
				continue
			}
		} else if !strings.ContainsRune(follow, rune(s[end])) {
			continue
		}

		out.WriteString(s[last:start])
		out.WriteString(repl)

		last = end
		offset = end
	}

	if last == 0 {
		return s
	}

	out.WriteString(s[last:])

	return out.String()
}
