package ocsigenserver

import (
	"fmt"
	"testing"
)

func TestIssues_ErrorSummaryCapsAtThree(t *testing.T) {
	iss := Issues{
		{Code: CodeMissingParameter, Name: "a"},
		{Code: CodeInvalidValue, Name: "b"},
		{Code: CodeOverflow, Name: "c"},
		{Code: CodeMissingParameter, Name: "d"},
		{Code: CodeMissingParameter, Name: "e"},
	}
	want := "missing_parameter at a; invalid_value at b; overflow at c; ... (total 5)"
	if got := iss.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIssues_ErrorOmitsEmptyName(t *testing.T) {
	iss := Issues{{Code: CodeUnconsumedSuffix}}
	if got := iss.Error(); got != "unconsumed_suffix" {
		t.Fatalf("expected bare code, got %q", got)
	}
	if got := (Issues{}).Error(); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestAsIssues_UnwrapsWrappedErrors(t *testing.T) {
	iss := Issues{{Code: CodeInvalidValue, Name: "n"}}
	wrapped := fmt.Errorf("decode request: %w", iss)

	got, ok := AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Name != "n" {
		t.Fatalf("expected issues through the wrap, got %v ok=%v", got, ok)
	}
	if _, ok := AsIssues(nil); ok {
		t.Fatalf("nil error must not yield issues")
	}
	if _, ok := AsIssues(fmt.Errorf("plain")); ok {
		t.Fatalf("unrelated error must not yield issues")
	}
}

func TestIsMissing_LooksAtTheFirstIssue(t *testing.T) {
	if !IsMissing(Issues{{Code: CodeMissingParameter, Name: "a"}}) {
		t.Fatalf("missing_parameter should report missing")
	}
	if !IsMissing(Issues{{Code: CodeFileMissing, Name: "f"}}) {
		t.Fatalf("file_missing should report missing")
	}
	if IsMissing(Issues{{Code: CodeInvalidValue, Name: "a"}, {Code: CodeMissingParameter, Name: "b"}}) {
		t.Fatalf("only the first issue decides")
	}
	if IsMissing(nil) {
		t.Fatalf("nil error is not missing")
	}
}

func TestShapeError_Format(t *testing.T) {
	e := &ShapeError{Issue: Issue{Name: "n", Code: CodeInvalidShape, Message: "bad"}}
	if got := e.Error(); got != "invalid_shape at n: bad" {
		t.Fatalf("unexpected format: %q", got)
	}
	e = &ShapeError{Issue: Issue{Code: CodeInvalidShape, Message: "bad"}}
	if got := e.Error(); got != "invalid_shape: bad" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestShapef_PanicsWithShapeError(t *testing.T) {
	defer func() {
		r := recover()
		se, ok := r.(*ShapeError)
		if !ok {
			t.Fatalf("expected *ShapeError, got %T", r)
		}
		if se.Issue.Name != "k" || se.Issue.Code != CodeInvalidShape {
			t.Fatalf("unexpected issue: %+v", se.Issue)
		}
	}()
	Shapef("k", "oops %d", 7)
}
