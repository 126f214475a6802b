package param

import (
	"errors"
	"strconv"

	ocsigenserver "github.com/huangered/ocsigenserver"
)

func invalidAt(key, raw string, cause error) error {
	it := ocsigenserver.IssueAt(key, ocsigenserver.CodeInvalidValue, nil)
	it.Raw = raw
	it.Cause = cause
	return ocsigenserver.Issues{it}
}

func overflowAt(key, raw string, bits int) error {
	it := ocsigenserver.IssueAt(key, ocsigenserver.CodeOverflow, map[string]any{"bits": bits})
	it.Raw = raw
	return ocsigenserver.Issues{it}
}

func mismatchAt(key, raw string) error {
	it := ocsigenserver.IssueAt(key, ocsigenserver.CodeRegexpMismatch, nil)
	it.Raw = raw
	return ocsigenserver.Issues{it}
}

func isRange(err error) bool { return errors.Is(err, strconv.ErrRange) }
