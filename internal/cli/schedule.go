package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/matrix"
	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/render"
)

// ScheduleOptions holds flags for the schedule subcommands.
type ScheduleOptions struct {
	*RootOptions
	Count int
	From  string
	To    string
	Fill  string
}

// NewScheduleCommand creates the schedule command group. Every edit goes
// through a matrix.Editor over the working model.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show or edit the unit schedule grid",
	}

	sub := func(use, short string, nargs int, run func(*workspace, *matrix.Editor, []string) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:           use,
			Short:         short,
			Args:          cobra.ExactArgs(nargs),
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return editSchedule(opts, cmd, args, run)
			},
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the schedule grid over the model dates",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleShow(opts, cmd)
		},
	})

	cmd.AddCommand(sub("set <unit> <product> <date> <value>", "Set one cell (non-numeric values become 0)", 4,
		func(ws *workspace, ed *matrix.Editor, args []string) (string, error) {
			return fmt.Sprintf("Set %s/%s on %s", args[0], args[1], args[2]),
				ed.SetCellFor(args[0], args[1], args[2], args[3])
		}))

	copyCmd := sub("copy <unit> <product> <date>", "Copy a cell into the following days", 3,
		func(ws *workspace, ed *matrix.Editor, args []string) (string, error) {
			i := matrix.Find(ed.Rows(), args[0], args[1])
			if i < 0 {
				return fmt.Sprintf("No row %s/%s; nothing copied", args[0], args[1]), nil
			}
			return fmt.Sprintf("Copied %s/%s from %s into up to %d days", args[0], args[1], args[2], opts.Count),
				ed.CopyForward(i, args[2], opts.Count)
		})
	copyCmd.Flags().IntVar(&opts.Count, "count", matrix.DefaultCopyCount, "number of following days to fill")
	cmd.AddCommand(copyCmd)

	fillCmd := sub("fill <unit> <product> <value>", "Fill a date range of a row with one value", 3,
		func(ws *workspace, ed *matrix.Editor, args []string) (string, error) {
			return fmt.Sprintf("Filled %s/%s", args[0], args[1]),
				ed.FillRange(args[0], args[1], matrix.ParseVolume(args[2]), opts.From, opts.To)
		})
	fillCmd.Flags().StringVar(&opts.From, "from", "", "first date key (default: first model date)")
	fillCmd.Flags().StringVar(&opts.To, "to", "", "last date key (default: last model date)")
	cmd.AddCommand(fillCmd)

	addCmd := &cobra.Command{
		Use:   "add <unit> <product>",
		Short: "Add a row, optionally filled across the horizon",
		Long: `Add a (unit, product) row. The model file keeps only positive volumes,
so a row is kept once it holds one: give --fill to set every date of the
horizon, or use "schedule set" / "schedule fill" afterwards.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleAdd(opts, cmd, args[0], args[1])
		},
	}
	addCmd.Flags().StringVar(&opts.Fill, "fill", "", "volume written to every date of the horizon")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(sub("remove <unit> <product>", "Remove a row", 2,
		func(ws *workspace, ed *matrix.Editor, args []string) (string, error) {
			return fmt.Sprintf("Removed %s/%s", args[0], args[1]), ed.RemoveRow(args[0], args[1])
		}))

	return cmd
}

// scheduleView is the JSON shape of schedule output.
type scheduleView struct {
	Dates []string     `json:"dates"`
	Rows  []matrix.Row `json:"rows"`
}

func runScheduleShow(opts *ScheduleOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		dates, err := ws.store.Dates()
		if err != nil {
			return fail(f, err)
		}
		rows := matrix.Open(ws.store).Rows()

		var buf bytes.Buffer
		if err := render.Schedule(&buf, rows, dates); err != nil {
			return fail(f, err)
		}
		return f.Result(strings.TrimRight(buf.String(), "\n"), scheduleView{Dates: dates, Rows: rows})
	})
}

// editSchedule runs one editor operation and persists the result. Rows that
// flatten to nothing are not kept in the working file.
func editSchedule(opts *ScheduleOptions, cmd *cobra.Command, args []string, run func(*workspace, *matrix.Editor, []string) (string, error)) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		ed := matrix.Open(ws.store)
		message, err := run(ws, ed, args)
		if err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}
		sched, _ := ws.store.Schedule()
		return f.Result(message, sched)
	})
}

// scheduleAddView is the JSON shape of schedule add output.
type scheduleAddView struct {
	Unit     string `json:"unit"`
	Product  string `json:"product"`
	// Kept is false when the row holds no positive volume and therefore
	// does not appear in the model file.
	Kept     bool           `json:"kept"`
	Schedule model.Schedule `json:"schedule"`
}

func runScheduleAdd(opts *ScheduleOptions, cmd *cobra.Command, unit, product string) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts.RootOptions, f, func(ws *workspace) error {
		ed := matrix.Open(ws.store)
		var err error
		if opts.Fill != "" {
			err = ed.FillRange(unit, product, matrix.ParseVolume(opts.Fill), "", "")
		} else {
			err = ed.AddRow(unit, product)
		}
		if err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}

		sched, _ := ws.store.Schedule()
		_, kept := sched[unit][product]
		view := scheduleAddView{Unit: unit, Product: product, Kept: kept, Schedule: sched}
		if !kept {
			return f.Result(fmt.Sprintf(
				"Row %s/%s has no volumes and is not kept in %s; use --fill, \"schedule set\" or \"schedule fill\"",
				unit, product, ws.path()), view)
		}
		return f.Result(fmt.Sprintf("Added %s/%s", unit, product), view)
	})
}
