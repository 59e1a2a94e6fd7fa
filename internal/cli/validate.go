package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/validate"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the working model before saving or running",
		Long: `Check the working model against the wire schema and the model's
date horizon. Errors exit with status 1; warnings (dates outside the horizon,
duplicate product codes) are reported but do not fail.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		report, err := validate.Check(ws.snapshot())
		if err != nil {
			return fail(f, err)
		}
		f.VerboseLog("validated %s: %d issue(s)", ws.path(), len(report.Issues))

		if !report.OK() {
			return outputValidationErrors(f, report)
		}
		return f.Result(formatReport(report), report)
	})
}

// checkBeforeSubmit validates the working model and reports errors in the
// same way as the validate command. Returns nil when submission may proceed.
func checkBeforeSubmit(f *OutputFormatter, ws *workspace) error {
	report, err := validate.Check(ws.snapshot())
	if err != nil {
		return fail(f, err)
	}
	for _, issue := range report.Issues {
		if issue.Severity == validate.SeverityWarning {
			f.VerboseLog("warning: %s at %s: %s", issue.Code, issue.Path, issue.Message)
		}
	}
	if !report.OK() {
		// Missing metadata keeps its own code.
		errs := report.Errors()
		if len(errs) == 1 && errs[0].Code == validate.CodeMissingMetadata {
			return failWith(f, ErrCodeMissingMetadata, ExitFailure, "model metadata is required", report.Err())
		}
		return outputValidationErrors(f, report)
	}
	return nil
}

func outputValidationErrors(f *OutputFormatter, report validate.Report) error {
	errs := report.Errors()
	_ = f.Error(ErrCodeInvalidModel, fmt.Sprintf("model has %d error(s)", len(errs)), report.Issues)
	if f.Format != "json" {
		fmt.Fprintln(f.Writer, formatReport(report))
	}
	return WrapExitError(ExitFailure, ErrCodeInvalidModel, report.Err())
}

func formatReport(report validate.Report) string {
	if len(report.Issues) == 0 {
		return "Model valid"
	}
	var b strings.Builder
	for _, i := range report.Issues {
		fmt.Fprintf(&b, "%-7s %-18s %s: %s\n", i.Severity, i.Code, i.Path, i.Message)
	}
	if report.OK() {
		b.WriteString("Model valid (with warnings)")
	}
	return strings.TrimRight(b.String(), "\n")
}
