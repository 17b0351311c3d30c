package tools

import (
	"fmt"
	"sort"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError   LintLevel = iota // undefined symbol references
	LintWarning                  // unused labels, other style issues
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding at a source location.
type LintIssue struct {
	Level   LintLevel
	Line    int
	File    string
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("%s:%d: %s: %s [%s]", i.File, i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which checks Lint runs.
type LintOptions struct {
	CheckUndefined bool // flag symbols referenced but never defined
	CheckUnused    bool // flag labels defined but never referenced
}

// DefaultLintOptions enables every check.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUndefined: true, CheckUnused: true}
}

// Lint parses src and returns every issue the enabled checks find, sorted
// by source line. It does not run the compiler; it reasons purely from
// the statement tree's symbol usage. If src does not parse, Lint returns
// the parse error and no issues.
func Lint(src, filename string, opts *LintOptions) ([]*LintIssue, error) {
	if opts == nil {
		opts = DefaultLintOptions()
	}

	gen := NewXRefGenerator()
	if _, err := gen.Generate(src, filename); err != nil {
		return nil, err
	}

	var issues []*LintIssue

	if opts.CheckUndefined {
		for _, sym := range gen.GetUndefinedSymbols() {
			for _, ref := range sym.References {
				issues = append(issues, &LintIssue{
					Level:   LintError,
					Line:    ref.Line,
					File:    ref.File,
					Message: fmt.Sprintf("undefined symbol %q", sym.Name),
					Code:    "UNDEF_SYMBOL",
				})
			}
		}
	}

	if opts.CheckUnused {
		for _, sym := range gen.GetUnusedSymbols() {
			if sym.IsLocal || isEntryPointName(sym.Name) {
				continue
			}
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Line:    sym.Definition.Line,
				File:    sym.Definition.File,
				Message: fmt.Sprintf("label %q is never referenced", sym.Name),
				Code:    "UNUSED_LABEL",
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues, nil
}

// isEntryPointName skips the conventional reset/entry label names a
// linter should never flag as dead code, even with no in-source caller.
func isEntryPointName(name string) bool {
	switch name {
	case "start", "main", "reset", "_start":
		return true
	default:
		return false
	}
}
