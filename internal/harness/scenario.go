package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines an editing scenario: steps applied in order to an empty
// model, then assertions on the final model and the trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture optionally names a model JSON file loaded before the steps.
	// Relative paths are resolved against the scenario file's directory.
	Fixture string `yaml:"fixture,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one edit.
type Step struct {
	// Op names the edit, see Ops.
	Op string `yaml:"op"`

	// Args holds the edit's arguments. Scalars are read as strings or
	// integers as the op requires.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect is the expected outcome: "ok" (default) or an error code such
	// as STALE_WRITE or UNKNOWN_FIELD.
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the final model or the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Unit, Product and Date address a schedule cell or row (cell, no_row).
	Unit    string   `yaml:"unit,omitempty"`
	Product string   `yaml:"product,omitempty"`
	Date    string   `yaml:"date,omitempty"`
	Value   *float64 `yaml:"value,omitempty"`

	// Section and Expect check a section subset (section).
	Section string         `yaml:"section,omitempty"`
	Expect  map[string]any `yaml:"expect,omitempty"`

	// Op, Ops and Count check the trace (trace_contains, trace_order,
	// trace_count).
	Op    string   `yaml:"op,omitempty"`
	Ops   []string `yaml:"ops,omitempty"`
	Count *int     `yaml:"count,omitempty"`

	// Valid is the expected validation verdict (valid).
	Valid *bool `yaml:"valid,omitempty"`
}

// Assertion type constants.
const (
	AssertCell          = "cell"
	AssertNoRow         = "no_row"
	AssertSection       = "section"
	AssertProductCount  = "product_count"
	AssertValid         = "valid"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// Step op constants.
const (
	OpInit           = "init"
	OpReset          = "reset"
	OpMetaSet        = "meta.set"
	OpProductAdd     = "product.add"
	OpProductSet     = "product.set"
	OpProductRemove  = "product.remove"
	OpScheduleSet    = "schedule.set"
	OpScheduleCopy   = "schedule.copy"
	OpScheduleFill   = "schedule.fill"
	OpScheduleAdd    = "schedule.add"
	OpScheduleRemove = "schedule.remove"
	OpSectionSet     = "section.set"
	OpSave           = "save"
	OpLoad           = "load"
	// OpStaleSchedule opens a schedule editor, lets another edit land, then
	// writes through the first editor.
	OpStaleSchedule = "schedule.stale"
)

// Ops lists every step op.
var Ops = []string{
	OpInit, OpReset, OpMetaSet,
	OpProductAdd, OpProductSet, OpProductRemove,
	OpScheduleSet, OpScheduleCopy, OpScheduleFill, OpScheduleAdd, OpScheduleRemove,
	OpSectionSet, OpSave, OpLoad, OpStaleSchedule,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(p), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(p)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Fixture != "" {
		if _, err := os.Stat(s.Fixture); os.IsNotExist(err) {
			return fmt.Errorf("fixture file not found: %s", s.Fixture)
		}
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !slices.Contains(Ops, step.Op) {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCell:
		if a.Unit == "" || a.Product == "" || a.Date == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: unit, product, date and value are required for cell", index)
		}
	case AssertNoRow:
		if a.Unit == "" || a.Product == "" {
			return fmt.Errorf("assertions[%d]: unit and product are required for no_row", index)
		}
	case AssertSection:
		if _, ok := sectionReaders[a.Section]; !ok {
			return fmt.Errorf("assertions[%d]: unknown section %q", index, a.Section)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for section", index)
		}
	case AssertProductCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for product_count", index)
		}
	case AssertValid:
		if a.Valid == nil {
			return fmt.Errorf("assertions[%d]: valid is required", index)
		}
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
