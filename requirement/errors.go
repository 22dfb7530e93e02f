package requirement

import (
	"fmt"
	"strings"
)

// TokenizeError reports a run of characters that is not part of the
// grammar.
type TokenizeError struct {
	Pos  int
	Text string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("unrecognized input %q at position %d", e.Text, e.Pos)
}

// ParseError reports a structural grammar violation.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// SourceError ties a failure to the program whose expression caused it.
type SourceError struct {
	Program Program
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Program.Type, e.Program.Name, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// UnknownDepartmentError reports a course code whose department is not in
// the catalog.
type UnknownDepartmentError struct {
	Code string
}

func (e *UnknownDepartmentError) Error() string {
	return fmt.Sprintf("unknown department code %q in %s", Department(e.Code), e.Code)
}

// UnknownCourseInRangeError reports a range that matches no catalog course.
type UnknownCourseInRangeError struct {
	Range string
}

func (e *UnknownCourseInRangeError) Error() string {
	return fmt.Sprintf("course range %s matches no course in the catalog", e.Range)
}

// Errors is a list of errors reported together.
type Errors []error

func (e Errors) Error() string {
	const msg = "requirement errors"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, err := range e {
		s[i] = err.Error()
	}
	return msg + ": " + strings.Join(s, "; ")
}

func (e Errors) Strings() []string {
	s := make([]string, len(e))
	for i, err := range e {
		s[i] = err.Error()
	}
	return s
}
