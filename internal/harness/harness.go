package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/declgen/internal/translate"
	"github.com/roach88/declgen/internal/xcodeml"
)

// Harness runs scenarios.
type Harness struct {
	logger *slog.Logger

	// GoldenDir holds <name>.golden files for scenarios with golden: true.
	// When empty, golden comparison is left to RunWithGolden.
	GoldenDir string
}

// New creates a Harness. A nil logger discards harness logs.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run translates the scenario's document and evaluates its assertions.
//
// The returned error is reserved for failures outside the translation, such
// as an unreadable ir_file. A translation error is a failed Result unless the
// scenario expects it.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	data, err := scenarioIR(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	res, terr := translate.Translate(data, scenario.Config())
	if terr != nil {
		code, ok := xcodeml.CodeOf(terr)
		if !ok {
			code = "UNKNOWN"
		}
		result.ErrorCode = string(code)
		h.logger.Info("translation failed", "scenario", scenario.Name, "code", code, "error", terr)

		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("translation failed: %v", terr))
		case scenario.ExpectError != string(code):
			result.AddError((&AssertionError{
				Type:     "expect_error",
				Expected: scenario.ExpectError,
				Actual:   fmt.Sprintf("%s (%v)", code, terr),
			}).Error())
		}
		return result, nil
	}

	result.Output = res.Text
	result.Decls = len(res.Decls)
	for _, id := range res.Incomplete {
		result.Incomplete = append(result.Incomplete, string(id))
	}

	if scenario.ExpectError != "" {
		result.AddError((&AssertionError{
			Type:     "expect_error",
			Expected: scenario.ExpectError,
			Actual:   "translation succeeded",
			Output:   result.Output,
		}).Error())
		return result, nil
	}

	for _, msg := range EvaluateAssertions(result, scenario.Expect) {
		result.AddError(msg)
	}

	if scenario.Golden && h.GoldenDir != "" {
		if err := compareGoldenFile(h.GoldenDir, scenario.Name, result.Output); err != nil {
			result.AddError(err.Error())
		}
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"decls", result.Decls,
	)
	return result, nil
}

func scenarioIR(s *Scenario) ([]byte, error) {
	if s.IR != "" {
		return []byte(s.IR), nil
	}
	data, err := os.ReadFile(s.IRFile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return data, nil
}

func compareGoldenFile(dir, name, output string) error {
	path := filepath.Join(dir, name+".golden")
	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("golden: %w", err)
	}
	if string(want) != output {
		return &AssertionError{
			Type:     "golden",
			Expected: fmt.Sprintf("output of %s", path),
			Actual:   "output differs",
			Output:   output,
		}
	}
	return nil
}
