// pkg/results/results.go

// Package results interprets the structured results document a simulation
// run leaves behind. The document is a junit-shaped XML tree: testsuite
// nodes contain testcase nodes which may contain failure nodes.
package results

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrTestFailure indicates a well-formed results document that records one
// or more failing test cases. It is a reported outcome, not a system fault.
var ErrTestFailure = errors.New("test failure")

// Failure is one failed test case recorded in a results document.
type Failure struct {
	ClassName string // Test class the case belongs to
	Name      string // Test case name
	Message   string // Failure message
	Stdout    string // Captured output, if any
}

// RunResult is the parsed outcome of one simulation run.
type RunResult struct {
	Path     string    // Results document the outcome was derived from
	Failures []Failure // Every failure record found, in document order
}

// Passed reports whether the run recorded no failures.
func (r *RunResult) Passed() bool {
	return len(r.Failures) == 0
}

// Err returns nil for a passing run, and a TestFailureError enumerating
// every failure otherwise.
func (r *RunResult) Err() error {
	if r.Passed() {
		return nil
	}
	return &TestFailureError{Failures: r.Failures}
}

// TestFailureError enumerates every failed test case from a run.
type TestFailureError struct {
	Failures []Failure
}

func (e *TestFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d test(s) failed:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s.%s: %s", f.ClassName, f.Name, f.Message)
		if f.Stdout != "" {
			fmt.Fprintf(&b, " (output: %s)", f.Stdout)
		}
	}
	return b.String()
}

func (e *TestFailureError) Unwrap() error {
	return ErrTestFailure
}

// Parse reads a results document and collects every failure node found,
// regardless of which testsuite or testcase it belongs to. An empty failure
// list means the run passed.
func Parse(path string) (*RunResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results document: %w", err)
	}
	defer f.Close()

	res := &RunResult{Path: path}

	// A token walk rather than a fixed struct shape: documents in the wild
	// differ on whether a testsuites wrapper element is present.
	dec := xml.NewDecoder(f)
	var class, name string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing results document: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "testcase":
			class = attr(se, "classname")
			name = attr(se, "name")
		case "failure":
			res.Failures = append(res.Failures, Failure{
				ClassName: class,
				Name:      name,
				Message:   attr(se, "message"),
				Stdout:    attr(se, "stdout"),
			})
		}
	}

	return res, nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
