package rewrite

import (
	"regexp"
	"strings"
)

// PassCatchBinding is the name of the catch-clause stripping pass.
const PassCatchBinding = "catch-binding"

var catchHeader = regexp.MustCompile(`\} catch \(([^)]+)\) \{`)

const unboundCatch = "} catch {"

// CatchBindingPass rewrites `} catch (err) {` into `} catch {`.
//
// The binding is dropped without looking at the block body, so a block that
// still uses it ends up with a dangling reference. Set
// Policy.CatchSkipIfReferenced to keep such bindings instead.
func CatchBindingPass(policy Policy) Pass {
	skip := policy.CatchSkipIfReferenced

	return Pass{
		Name:        PassCatchBinding,
		Description: "strip exception bindings from catch clauses",
		Apply: func(file SourceFile) string {
			return stripCatchBindings(file.Content, skip)
		},
	}
}

func stripCatchBindings(content string, skipIfReferenced bool) string {
	if !skipIfReferenced {
		return catchHeader.ReplaceAllLiteralString(content, unboundCatch)
	}

	matches := catchHeader.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var out strings.Builder

	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		name := bindingName(content[m[2]:m[3]])
		body := blockBody(content, end)

		if name != "" && countWord(body, name) > 0 {
			continue
		}

		out.WriteString(content[last:start])
		out.WriteString(unboundCatch)

		last = end
	}

	out.WriteString(content[last:])

	return out.String()
}

// bindingName extracts the identifier from a catch parameter such as
// `err: unknown`.
func bindingName(param string) string {
	name, _, _ := strings.Cut(param, ":")

	return strings.TrimSpace(name)
}

// blockBody returns the text from open up to the brace that closes the block
// opened just before it. Braces inside strings are not special-cased.
func blockBody(content string, open int) string {
	depth := 1

	for i := open; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[open:i]
			}
		}
	}

	return content[open:]
}
