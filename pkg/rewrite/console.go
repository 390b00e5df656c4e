package rewrite

import (
	"regexp"
	"strings"
)

// PassConsoleLogger is the name of the console redirection pass.
const PassConsoleLogger = "console-logger"

var consoleCall = regexp.MustCompile(`\bconsole\.(log|error|warn|debug)\(`)

// consoleLevels maps console methods to logger methods.
var consoleLevels = map[string]string{
	"log":   "info",
	"error": "error",
	"warn":  "warn",
	"debug": "debug",
}

// ConsoleLoggerPass redirects console.log/error/warn/debug calls to the
// policy's logger and imports it when needed. Files whose path contains
// Policy.LoggerExempt are left alone.
func ConsoleLoggerPass(policy Policy) Pass {
	return Pass{
		Name:        PassConsoleLogger,
		Description: "redirect console calls to the shared logger",
		Apply: func(file SourceFile) string {
			if policy.LoggerExempt != "" && strings.Contains(file.Path, policy.LoggerExempt) {
				return file.Content
			}

			return redirectConsole(file.Content, policy)
		},
	}
}

func redirectConsole(content string, policy Policy) string {
	if !consoleCall.MatchString(content) {
		return content
	}

	hasImport := strings.Contains(content, "from '"+policy.LoggerImport+"'") ||
		strings.Contains(content, `from "`+policy.LoggerImport+`"`)

	content = consoleCall.ReplaceAllStringFunc(content, func(call string) string {
		method := strings.TrimSuffix(strings.TrimPrefix(call, "console."), "(")

		return policy.LoggerName + "." + consoleLevels[method] + "("
	})

	if hasImport {
		return content
	}

	return insertImport(content, policy.loggerImportLine())
}

// insertImport puts line before the first line starting with `import `, or
// before the first non-blank line when the file has no imports.
func insertImport(content, line string) string {
	lines := strings.Split(content, "\n")
	at := -1

	for i, l := range lines {
		if strings.HasPrefix(l, "import ") {
			at = i

			break
		}
	}

	if at < 0 {
		at = 0

		for i, l := range lines {
			if strings.TrimSpace(l) != "" {
				at = i

				break
			}
		}
	}

	lines = append(lines[:at], append([]string{line}, lines[at:]...)...)

	return strings.Join(lines, "\n")
}
