package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/state"
)

// NewMetaCommand creates the meta command group.
func NewMetaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show or edit model metadata",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show model metadata",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetaShow(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one metadata field",
		Long: fmt.Sprintf(`Set one metadata field. Fields: %v.
startDate and runDays read the leading integer of the value; anything
else becomes 0.`, edit.MetadataFields),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetaSet(rootOpts, args[0], args[1], cmd)
		},
	})

	return cmd
}

func runMetaShow(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		meta, _ := ws.store.Metadata()
		if meta == nil {
			return fail(f, state.NewMissingMetadataError())
		}
		return f.Result(
			fmt.Sprintf("uid:            %s\nid_description: %s\nstartDate:      %d\nrunDays:        %d",
				meta.UID, meta.Description, meta.StartDate, meta.RunDays),
			meta,
		)
	})
}

func runMetaSet(opts *RootOptions, field, raw string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		meta, version := ws.store.Metadata()
		if meta == nil {
			return fail(f, state.NewMissingMetadataError())
		}
		updated, err := edit.SetMetadataField(*meta, field, raw)
		if err != nil {
			return fail(f, err)
		}
		if _, err := ws.store.DispatchIf(state.SetMetadata{Metadata: updated}, version); err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}
		return f.Result(fmt.Sprintf("Set %s", field), updated)
	})
}
