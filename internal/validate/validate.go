package validate

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/wire"
)

//go:embed schema.cue
var schemaCUE string

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes.
const (
	CodeSchema           = "SCHEMA"
	CodeMissingMetadata  = "MISSING_METADATA"
	CodeDateOutOfRange   = "DATE_OUT_OF_RANGE"
	CodeDuplicateProduct = "DUPLICATE_PRODUCT"
)

// Issue is one finding.
type Issue struct {
	Code     string   `json:"code"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Report collects the issues found in a snapshot.
type Report struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether the report contains no errors. Warnings are allowed.
func (r Report) OK() bool {
	return !slices.ContainsFunc(r.Issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// Errors returns only the error-severity issues.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err returns nil when the report is OK, or an error summarizing the first
// error issue.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	if len(errs) == 1 {
		return fmt.Errorf("invalid model: %s at %s: %s", first.Code, first.Path, first.Message)
	}
	return fmt.Errorf("invalid model: %s at %s: %s (and %d more)", first.Code, first.Path, first.Message, len(errs)-1)
}

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// schema compiles the embedded schema once per process.
func schema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Snapshot"))
	})
	return schemaVal, schemaErr
}

// Check validates a snapshot. An error is returned only when validation
// itself could not run; problems with the snapshot are reported as issues.
func Check(snap wire.Snapshot) (Report, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return Report{}, fmt.Errorf("validate: encode: %w", err)
	}
	return CheckJSON(data)
}

// CheckJSON validates a raw snapshot document.
func CheckJSON(data []byte) (Report, error) {
	def, err := schema()
	if err != nil {
		return Report{}, err
	}

	present, err := dropNulls(data)
	if err != nil {
		return Report{}, fmt.Errorf("validate: parse: %w", err)
	}

	report := Report{Issues: []Issue{}}
	doc := def.Context().CompileBytes(present, cue.Filename("snapshot.json"))
	if err := doc.Err(); err != nil {
		return Report{}, fmt.Errorf("validate: parse: %w", err)
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		report.Issues = append(report.Issues, schemaIssues(err)...)
	}

	snap, err := wire.Decode(data)
	if err != nil {
		// Shape errors were reported by the schema.
		return report, nil
	}
	report.Issues = append(report.Issues, checkValues(snap)...)
	return report, nil
}

// dropNulls removes top-level sections whose value is null.
func dropNulls(data []byte) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if string(v) == "null" {
			delete(fields, k)
		}
	}
	return json.Marshal(fields)
}

func schemaIssues(err error) []Issue {
	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		issues = append(issues, Issue{
			Code:     CodeSchema,
			Path:     strings.TrimPrefix(path, "#Snapshot."),
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	return issues
}

// checkValues runs the cross-section rules.
func checkValues(snap wire.Snapshot) []Issue {
	var issues []Issue
	if snap.ModelMetaData == nil {
		issues = append(issues, Issue{
			Code:     CodeMissingMetadata,
			Path:     "ModelMetaData",
			Message:  "model metadata is required",
			Severity: SeverityError,
		})
	} else {
		issues = append(issues, checkDates(*snap.ModelMetaData, snap)...)
	}

	for _, code := range edit.DuplicateCodes(snap.ProductsForModelItem) {
		issues = append(issues, Issue{
			Code:     CodeDuplicateProduct,
			Path:     "ProductsForModelItem",
			Message:  fmt.Sprintf("product code %q appears more than once", code),
			Severity: SeverityWarning,
		})
	}
	return issues
}

// checkDates reports dated entries outside the Dimension Key as errors. A
// horizon the schema already rejects is not checked again.
func checkDates(meta model.ModelMetaData, snap wire.Snapshot) []Issue {
	if meta.RunDays < 0 || meta.RunDays > model.MaxRunDays {
		return nil
	}
	first := meta.StartDate
	last := first + meta.RunDays - 1
	if meta.RunDays > 0 && first > math.MaxInt64-meta.RunDays+1 {
		last = math.MaxInt64
	}
	outside := func(day int64) bool {
		return meta.RunDays == 0 || day < first || day > last
	}
	window := fmt.Sprintf("[%d, %d]", first, last)
	if meta.RunDays == 0 {
		window = "the empty horizon"
	}

	var issues []Issue
	check := func(path string, dv model.DateVolumes) {
		for _, key := range slices.Sorted(maps.Keys(dv)) {
			day, err := model.ParseDateKey(key)
			if err != nil {
				continue
			}
			if outside(day) {
				issues = append(issues, Issue{
					Code:     CodeDateOutOfRange,
					Path:     path + "." + key,
					Message:  fmt.Sprintf("date %d is outside %s", day, window),
					Severity: SeverityError,
				})
			}
		}
	}

	for _, unit := range slices.Sorted(maps.Keys(snap.ScheduleItem)) {
		for _, product := range slices.Sorted(maps.Keys(snap.ScheduleItem[unit])) {
			check("ScheduleItem."+unit+"."+product, snap.ScheduleItem[unit][product])
		}
	}
	sections := []struct {
		name string
		pdv  model.ProductDateVolumes
	}{
		{"Receipts", snap.Receipts},
		{"DailyOpenOrders", snap.DailyOpenOrders},
		{"DailyDemandForecast", snap.DailyDemandForecast},
	}
	for _, sec := range sections {
		for _, product := range slices.Sorted(maps.Keys(sec.pdv)) {
			check(sec.name+"."+product, sec.pdv[product])
		}
	}
	return issues
}
