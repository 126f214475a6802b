package ocsigenserver

import "github.com/huangered/ocsigenserver/i18n"

// IssueAt creates an Issue for the given resolved key with provided code and
// params map. This is a convenience helper to improve readability at call
// sites with many parameters.
func IssueAt(name, code string, params map[string]any) Issue {
	return Issue{Name: name, Code: code, Message: i18n.T(code, nil), Params: params}
}

func missingIssue(name string) Issues {
	return Issues{IssueAt(name, CodeMissingParameter, nil)}
}

func invalidIssue(name, raw string, cause error) Issues {
	it := IssueAt(name, CodeInvalidValue, nil)
	it.Raw = raw
	it.Cause = cause
	return Issues{it}
}
