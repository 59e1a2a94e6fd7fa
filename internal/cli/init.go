package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/state"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Start       int64
	Days        int64
	UID         string
	Description string
	Force       bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Start a new working model",
		Long: `Create a new working model file holding only metadata. The planning
horizon is --days consecutive day-numbers starting at --start.

Example:
  rollforward init --start 45000 --days 30 --uid march --description "March plan"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Start, "start", 0, "first day-number of the horizon")
	cmd.Flags().Int64Var(&opts.Days, "days", 0, "number of days in the horizon")
	cmd.Flags().StringVar(&opts.UID, "uid", "", "model uid")
	cmd.Flags().StringVar(&opts.Description, "description", "", "model description")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace an existing working model")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.Days < 0 || opts.Days > model.MaxRunDays {
		return usage(f, fmt.Sprintf("--days must be between 0 and %d", model.MaxRunDays))
	}

	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		if ws.exists && !opts.Force {
			return usage(f, fmt.Sprintf("%s already exists (use --force to replace it)", ws.path()))
		}

		meta := model.ModelMetaData{
			StartDate:   opts.Start,
			RunDays:     opts.Days,
			UID:         opts.UID,
			Description: opts.Description,
		}
		ws.store.Dispatch(state.Reset{})
		ws.store.Dispatch(state.SetMetadata{Metadata: meta})
		if err := ws.commit(f); err != nil {
			return err
		}

		return f.Result(
			fmt.Sprintf("Initialized %s: days %d..%d (%d days)", ws.path(), meta.StartDate, meta.StartDate+meta.RunDays-1, meta.RunDays),
			meta,
		)
	})
}
