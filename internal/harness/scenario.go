package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/declgen/internal/config"
)

// Scenario is one translation test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// IR is an inline XcodeML document. Exactly one of IR and IRFile is set.
	IR string `yaml:"ir,omitempty"`

	// IRFile is a path to an XcodeML document, relative to the scenario file.
	IRFile string `yaml:"ir_file,omitempty"`

	// TypeNames overrides display names of builtin type identifiers.
	TypeNames map[string]string `yaml:"typenames,omitempty"`

	// Indent is the member indentation width. Zero keeps the default.
	Indent int `yaml:"indent,omitempty"`

	// MaxDepth bounds declarator recursion. Zero keeps the default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Expect lists assertions on the translation result.
	Expect []Assertion `yaml:"expect,omitempty"`

	// ExpectError is the error code the translation must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Golden compares the output against testdata/golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`
}

// Assertion checks one property of the translation result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Text is used by contains, not_contains and equals.
	Text string `yaml:"text,omitempty"`

	// Count is used by decl_count and incomplete_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertContains        = "contains"
	AssertNotContains     = "not_contains"
	AssertEquals          = "equals"
	AssertDeclCount       = "decl_count"
	AssertIncompleteCount = "incomplete_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative ir_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.IRFile != "" && !filepath.IsAbs(s.IRFile) {
		s.IRFile = filepath.Join(filepath.Dir(path), s.IRFile)
	}
	if s.IRFile != "" {
		if _, err := os.Stat(s.IRFile); err != nil {
			return nil, fmt.Errorf("invalid scenario: ir_file: %w", err)
		}
	}
	return s, nil
}

// ParseScenario parses scenario YAML. ir_file is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Config returns the translation configuration for the scenario.
func (s *Scenario) Config() config.Config {
	cfg := config.Default()
	for k, v := range s.TypeNames {
		cfg.TypeNames[k] = v
	}
	if s.Indent > 0 {
		cfg.IndentWidth = s.Indent
	}
	if s.MaxDepth > 0 {
		cfg.MaxDepth = s.MaxDepth
	}
	return cfg
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.IR == "" && s.IRFile == "":
		return fmt.Errorf("one of ir or ir_file is required")
	case s.IR != "" && s.IRFile != "":
		return fmt.Errorf("ir and ir_file are mutually exclusive")
	}

	if len(s.Expect) == 0 && s.ExpectError == "" && !s.Golden {
		return fmt.Errorf("scenario checks nothing: add expect, expect_error or golden")
	}

	if s.ExpectError != "" && (len(s.Expect) > 0 || s.Golden) {
		return fmt.Errorf("expect_error cannot be combined with expect or golden")
	}

	if s.Indent < 0 {
		return fmt.Errorf("indent must be non-negative")
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}

	for i, a := range s.Expect {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("expect[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertNotContains:
		if a.Text == "" {
			return fmt.Errorf("expect[%d]: text is required for %s", index, a.Type)
		}
	case AssertEquals:
	case AssertDeclCount, AssertIncompleteCount:
		if a.Count < 0 {
			return fmt.Errorf("expect[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("expect[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
