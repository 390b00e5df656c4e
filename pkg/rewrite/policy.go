// Package rewrite implements the text rewrite passes applied to TypeScript and
// JavaScript sources, and the pipeline that composes them.
package rewrite

import (
	"errors"
	"fmt"
	"strings"
)

// Category is an import bucket. The numeric order is the classification
// precedence of the default rules, not the emission order.
type Category int

// Import categories.
const (
	CategoryFramework Category = iota
	CategoryType
	CategoryExternal
	CategoryInternal
	CategoryRelative
)

// emissionOrder is the order in which non-empty buckets are written back.
var emissionOrder = []Category{
	CategoryFramework,
	CategoryExternal,
	CategoryInternal,
	CategoryRelative,
	CategoryType,
}

var categoryNames = map[Category]string{
	CategoryFramework: "framework",
	CategoryType:      "type",
	CategoryExternal:  "external",
	CategoryInternal:  "internal",
	CategoryRelative:  "relative",
}

// ErrUnknownCategory is returned when a category name cannot be parsed.
var ErrUnknownCategory = errors.New("unknown import category")

// String returns the configuration name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts a configuration name into a Category.
func ParseCategory(name string) (Category, error) {
	for cat, catName := range categoryNames {
		if strings.EqualFold(catName, strings.TrimSpace(name)) {
			return cat, nil
		}
	}

	return CategoryExternal, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// EmissionOrder returns the fixed order in which import buckets are emitted.
func EmissionOrder() []Category {
	return append([]Category(nil), emissionOrder...)
}

// CategoryRule assigns a Category to import statements that satisfy it.
// All non-empty conditions must hold: the trimmed statement starts with one of
// Prefixes, contains one of Contains, and contains none of Excludes.
// A rule with no conditions matches everything.
type CategoryRule struct {
	Category Category
	Prefixes []string
	Contains []string
	Excludes []string
}

// Matches reports whether stmt satisfies the rule.
func (r CategoryRule) Matches(stmt string) bool {
	trimmed := strings.TrimSpace(stmt)

	if len(r.Prefixes) > 0 && !hasAnyPrefix(trimmed, r.Prefixes) {
		return false
	}

	if len(r.Contains) > 0 && !containsAny(stmt, r.Contains) {
		return false
	}

	return !containsAny(stmt, r.Excludes)
}

// Classify returns the category of the first matching rule, or
// CategoryExternal when no rule matches.
func Classify(stmt string, rules []CategoryRule) Category {
	for _, rule := range rules {
		if rule.Matches(stmt) {
			return rule.Category
		}
	}

	return CategoryExternal
}

// DefaultCategoryRules returns the built-in classification precedence:
// framework, type-only, internal alias, relative path. Everything else is external.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Category: CategoryFramework, Contains: []string{"react"}, Excludes: []string{"react-"}},
		{Category: CategoryType, Prefixes: []string{"import type "}},
		{Category: CategoryInternal, Contains: []string{"@/"}},
		{Category: CategoryRelative, Contains: []string{"./", "../"}},
	}
}

// Policy holds the hard-coded name lists and markers the passes consult.
type Policy struct {
	// DenyList names imports that are removed when unused.
	DenyList []string

	// CategoryRules drive import classification, first match wins.
	CategoryRules []CategoryRule

	// LoggerName is the identifier console calls are redirected to.
	LoggerName string
	// LoggerImport is the module specifier the logger is imported from.
	LoggerImport string
	// LoggerExempt is a path substring identifying the logger implementation.
	LoggerExempt string

	// StatusLiterals replace `status as any`.
	StatusLiterals []string

	// CatchSkipIfReferenced keeps catch bindings referenced inside their block.
	CatchSkipIfReferenced bool
}

// Default policy values.
const (
	DefaultLoggerName   = "logger"
	DefaultLoggerImport = "@/shared/services/logger"
	DefaultLoggerExempt = "logger.ts"
)

// DefaultDenyList returns the names considered commonly unused.
func DefaultDenyList() []string {
	return []string{
		"DialogContent", "DialogDescription", "DialogHeader", "DialogTitle",
		"Copy", "Phone", "useToast", "AnimatePresence", "FileText",
		"ArrowRight", "TrendingUp", "Settings", "Plus", "MoreVertical",
		"AlertTriangle", "UserMinus", "UserCheck", "UserPlus", "Filter",
		"Database", "Code", "Server", "Globe", "RotateCcw", "Calendar",
		"Clock", "RefreshCw", "CheckCircle", "Send", "ArrowUp", "Users",
		"StopCircle", "Upload", "AlertCircle", "BarChart3", "Download",
	}
}

// DefaultStatusLiterals returns the closed set used for status assertions.
func DefaultStatusLiterals() []string {
	return []string{"active", "inactive", "error", "pending"}
}

// DefaultPolicy returns the policy the passes use when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		DenyList:       DefaultDenyList(),
		CategoryRules:  DefaultCategoryRules(),
		LoggerName:     DefaultLoggerName,
		LoggerImport:   DefaultLoggerImport,
		LoggerExempt:   DefaultLoggerExempt,
		StatusLiterals: DefaultStatusLiterals(),
	}
}

// loggerImportLine is the import statement inserted by console redirection.
func (p Policy) loggerImportLine() string {
	return fmt.Sprintf("import { %s } from '%s';", p.LoggerName, p.LoggerImport)
}

func (p Policy) statusUnion() string {
	quoted := make([]string, 0, len(p.StatusLiterals))
	for _, lit := range p.StatusLiterals {
		quoted = append(quoted, "'"+lit+"'")
	}

	return strings.Join(quoted, " | ")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
