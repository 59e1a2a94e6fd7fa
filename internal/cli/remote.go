package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/render"
	"github.com/roach88/rollforward/internal/wire"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	ID string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the working model to the service or local repository",
		Long: `Consolidate the working model and save it. Without --id the backend
assigns a new id; the id is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "save under this id")
	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		if err := checkBeforeSubmit(f, ws); err != nil {
			return err
		}
		sess, err := ws.session()
		if err != nil {
			return fail(f, err)
		}
		id, err := sess.Save(cmd.Context(), opts.ID)
		if err != nil {
			return fail(f, err)
		}
		return f.Result(fmt.Sprintf("Saved as %s", id), map[string]string{"id": id})
	})
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load <id>",
		Short:         "Replace the working model with a saved model",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], cmd)
		},
	}
}

func runLoad(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		sess, err := ws.session()
		if err != nil {
			return fail(f, err)
		}
		if err := sess.Load(cmd.Context(), id); err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}
		meta, _ := ws.store.Metadata()
		text := fmt.Sprintf("Loaded %s into %s", id, ws.path())
		if meta == nil {
			text += " (no metadata)"
		}
		return f.Result(text, map[string]any{"id": id, "metadata": meta})
	})
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List models in the local repository (requires --db)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.DB == "" {
		return failWith(f, ErrCodeUnsupported, ExitCommandError, "list needs a local repository (--db)", nil)
	}
	return withWorkspace(opts, f, func(ws *workspace) error {
		repo, err := ws.repository()
		if err != nil {
			return fail(f, err)
		}
		models, err := repo.List(cmd.Context())
		if err != nil {
			return fail(f, err)
		}
		if len(models) == 0 {
			return f.Result("No saved models.", models)
		}
		var b strings.Builder
		for _, m := range models {
			fmt.Fprintf(&b, "%s\t%s\t%s\tdays %d..%d\trev %d\n",
				m.ID, m.UID, m.Description, m.StartDate, m.StartDate+m.RunDays-1, m.Revisions)
		}
		return f.Result(strings.TrimRight(b.String(), "\n"), models)
	})
}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Out string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit the working model and show the roll-forward result",
		Long: `Validate and submit the working model to the roll-forward service,
then render the returned result per product. With --out the raw result is also
written to a file that "rollforward output" can render later.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the result to this file")
	return cmd
}

func runRun(opts *RunOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		if err := checkBeforeSubmit(f, ws); err != nil {
			return err
		}
		sess, err := ws.session()
		if err != nil {
			return fail(f, err)
		}
		result, err := sess.Run(cmd.Context())
		if err != nil {
			return fail(f, err)
		}

		snap := ws.snapshot()
		snap.Result = result
		if opts.Out != "" {
			data, err := wire.Encode(snap)
			if err != nil {
				return fail(f, err)
			}
			if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
				return failWith(f, ErrCodeModelFile, ExitCommandError, err.Error(), err)
			}
			f.VerboseLog("result written to %s", opts.Out)
		}
		return outputResult(f, snap)
	})
}

// NewOutputCommand creates the output command.
func NewOutputCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "output <result.json>",
		Short: "Render a saved roll-forward result",
		Long: `Render a result document written by "run --out" or returned by the
service. The result may appear under either "Output" or "Outputs".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			data, err := os.ReadFile(args[0])
			if err != nil {
				return failWith(f, ErrCodeNotFound, ExitCommandError, err.Error(), err)
			}
			snap, err := wire.Decode(data)
			if err != nil {
				return usage(f, fmt.Sprintf("decode %s: %v", args[0], err))
			}
			if !snap.HasResult() {
				return failWith(f, ErrCodeNoOutput, ExitFailure, "no output data found in "+args[0], nil)
			}
			return outputResult(f, snap)
		},
	}
}

func outputResult(f *OutputFormatter, snap wire.Snapshot) error {
	uid := ""
	if snap.ModelMetaData != nil {
		uid = snap.ModelMetaData.UID
	}
	var buf bytes.Buffer
	if err := render.Result(&buf, uid, snap.Result); err != nil {
		return fail(f, err)
	}
	return f.Result(strings.TrimRight(buf.String(), "\n"), map[string]any{"uid": uid, "Outputs": snap.Result})
}
