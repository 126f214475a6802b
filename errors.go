package ocsigenserver

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingParameter = "missing_parameter"
	CodeInvalidValue     = "invalid_value"
	CodeOverflow         = "overflow"
	CodeAmbiguousSum     = "ambiguous_sum"
	CodeRegexpMismatch   = "regexp_mismatch"
	CodeFileMissing      = "file_missing"
	CodeFileInvalid      = "file_invalid"
	CodeDuplicateKey     = "duplicate_key"
	CodeUnconsumedSuffix = "unconsumed_suffix"
	// Definition-time misuse of combinators (non-disjoint products, doubled
	// suffixes, reserved names). Raised while a service is declared, never
	// per request.
	CodeInvalidShape = "invalid_shape"
)

// Issue represents a single decode (or definition) failure entry.
type Issue struct {
	Name    string // Resolved parameter key (for example: items.2.price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected formats, etc.
	Raw     string // Optional: the offending raw value as received.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min": -2147483648, "got": "9e9"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_parameter at age
		if it.Name == "" {
			fmt.Fprintf(b, "%s", it.Code)
			continue
		}
		fmt.Fprintf(b, "%s at %s", it.Code, it.Name)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsMissing reports whether the first issue of err signals absence rather than
// malformed input. Option decoding turns absence of its inner keys into None
// while letting every other failure escalate.
func IsMissing(err error) bool {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return false
	}
	switch iss[0].Code {
	case CodeMissingParameter, CodeFileMissing:
		return true
	}
	return false
}

// ShapeError reports definition-time misuse of the combinators. Constructors
// panic with a *ShapeError; declaring parameters happens once at service
// definition, so a bad shape can never reach request handling.
type ShapeError struct {
	Issue Issue
}

func (e *ShapeError) Error() string {
	if e.Issue.Name == "" {
		return fmt.Sprintf("%s: %s", e.Issue.Code, e.Issue.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Issue.Code, e.Issue.Name, e.Issue.Message)
}

// Shapef panics with a *ShapeError for the given parameter name.
func Shapef(name, format string, args ...any) {
	panic(&ShapeError{Issue: Issue{
		Name:    name,
		Code:    CodeInvalidShape,
		Message: fmt.Sprintf(format, args...),
	}})
}
