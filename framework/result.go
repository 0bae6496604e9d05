package framework

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed returns the number of tests that ran to completion without failing.
func (r Results) Passed() int {
	return len(r.Tests) - len(r.Failures) - len(r.Skipped)
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns a new TestID for a subtest of this one.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// Errors flattens the failures into one error per recorded failure message.
func (r Results) Errors() []error {
	var ret []error
	for _, f := range r.Failures {
		for _, e := range f.Errors {
			ret = append(ret, TestFailure{ID: f.TestID, Err: e})
		}
	}
	return ret
}
