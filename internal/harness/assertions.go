package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the generated output to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Output   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		fmt.Fprintf(&buf, "\nOutput:\n")
		for _, line := range strings.Split(strings.TrimRight(e.Output, "\n"), "\n") {
			fmt.Fprintf(&buf, "  | %s\n", line)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertContains:
		if !strings.Contains(r.Output, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("output contains %q", a.Text), Actual: "not found", Output: r.Output}
		}
	case AssertNotContains:
		if strings.Contains(r.Output, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("output does not contain %q", a.Text), Actual: "found", Output: r.Output}
		}
	case AssertEquals:
		if r.Output != a.Text {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%q", a.Text), Actual: fmt.Sprintf("%q", r.Output)}
		}
	case AssertDeclCount:
		if r.Decls != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d declarations", a.Count), Actual: fmt.Sprintf("%d declarations", r.Decls), Output: r.Output}
		}
	case AssertIncompleteCount:
		if len(r.Incomplete) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d incomplete identifiers", a.Count),
				Actual:   fmt.Sprintf("%d %v", len(r.Incomplete), r.Incomplete),
				Output:   r.Output,
			}
		}
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
	return nil
}
