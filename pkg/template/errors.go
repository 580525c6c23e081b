package template

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a template validation finding.
type ErrorKind string

const (
	// KindSyntax is a malformed decoration (unterminated bracket, empty name).
	KindSyntax ErrorKind = "syntax"
	// KindStructure is a structurally invalid template (conversion marker on
	// a non-object value, spread outside any conversion).
	KindStructure ErrorKind = "structure"
	// KindNoSpreadTarget is an array conversion with no spread descendant.
	KindNoSpreadTarget ErrorKind = "no_spread_target"
)

// Severity distinguishes hard errors from advisory findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single validation finding with the template path of the
// offending entry and an optional suggested fix.
type Error struct {
	Kind       ErrorKind
	Severity   Severity
	Message    string
	Path       string // template path of the offending entry, e.g. "/order/...item_ids"
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&sb, "\n  --> template%s", e.Path)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  = suggestion: %s", e.Suggestion)
	}
	return sb.String()
}

// ErrorList accumulates validation findings so a single lint pass can report
// every problem in a template instead of stopping at the first.
type ErrorList struct {
	Findings []*Error
}

// NewErrorList creates an empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends a finding.
func (el *ErrorList) Add(e *Error) {
	el.Findings = append(el.Findings, e)
}

// AddError records a finding with SeverityError.
func (el *ErrorList) AddError(kind ErrorKind, path, message string) {
	el.Add(&Error{Kind: kind, Severity: SeverityError, Path: path, Message: message})
}

// AddWarning records a finding with SeverityWarning.
func (el *ErrorList) AddWarning(kind ErrorKind, path, message string) {
	el.Add(&Error{Kind: kind, Severity: SeverityWarning, Path: path, Message: message})
}

// HasErrors reports whether the list contains at least one hard error.
func (el *ErrorList) HasErrors() bool {
	for _, e := range el.Findings {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether the list contains at least one warning.
func (el *ErrorList) HasWarnings() bool {
	for _, e := range el.Findings {
		if e.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Count returns the number of findings.
func (el *ErrorList) Count() int {
	return len(el.Findings)
}

// Error implements the error interface, rendering every finding.
func (el *ErrorList) Error() string {
	if len(el.Findings) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d problem(s):\n", len(el.Findings))
	for i, e := range el.Findings {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, e.Error())
	}
	return sb.String()
}

// ToError returns nil when the list holds no hard errors, otherwise the
// list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}
