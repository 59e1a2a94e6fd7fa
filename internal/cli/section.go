package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/state"
)

// sectionKind binds a CLI section name to its store section and a decoder
// producing the replacing action.
type sectionKind struct {
	section state.Section
	decode  func([]byte) (state.Action, error)
	get     func(*state.Store) any
}

var sectionKinds = map[string]sectionKind{
	"yields": {
		section: state.SectionUnitYields,
		decode: decodeAction(func(v model.UnitYield) state.Action {
			return state.SetUnitYields{UnitYields: v}
		}),
		get: func(s *state.Store) any {
			v, _ := s.UnitYields()
			return v
		},
	},
	"receipts": {
		section: state.SectionReceipts,
		decode: decodeAction(func(v model.ProductDateVolumes) state.Action {
			return state.SetReceipts{Receipts: v}
		}),
		get: func(s *state.Store) any {
			v, _ := s.Receipts()
			return v
		},
	},
	"orders": {
		section: state.SectionOpenOrders,
		decode: decodeAction(func(v model.ProductDateVolumes) state.Action {
			return state.SetOpenOrders{OpenOrders: v}
		}),
		get: func(s *state.Store) any {
			v, _ := s.OpenOrders()
			return v
		},
	},
	"demand": {
		section: state.SectionDemandForecast,
		decode: decodeAction(func(v model.ProductDateVolumes) state.Action {
			return state.SetDemandForecast{DemandForecast: v}
		}),
		get: func(s *state.Store) any {
			v, _ := s.DemandForecast()
			return v
		},
	},
	"formulation": {
		section: state.SectionProductFormulation,
		decode: decodeAction(func(v model.ProductFormulation) state.Action {
			return state.SetProductFormulation{ProductFormulation: v}
		}),
		get: func(s *state.Store) any {
			v, _ := s.ProductFormulation()
			return v
		},
	},
}

// decodeAction builds a strict JSON decoder for one section type.
func decodeAction[T any](wrap func(T) state.Action) func([]byte) (state.Action, error) {
	return func(data []byte) (state.Action, error) {
		var v T
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return wrap(v), nil
	}
}

func sectionNames() []string {
	names := make([]string, 0, len(sectionKinds))
	for k := range sectionKinds {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// NewSectionCommand creates the section command group for the sections that
// are edited as whole JSON documents.
func NewSectionCommand(rootOpts *RootOptions) *cobra.Command {
	names := strings.Join(sectionNames(), "|")
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Replace or show a whole model section",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   fmt.Sprintf("set <%s> <file.json>", names),
		Short: "Replace a section with the contents of a JSON file",
		Long: `Replace a section with the contents of a JSON file. The file holds
the section in its wire shape, for example receipts:

  {"CRD": {"45000": 10000}}`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionSet(rootOpts, args[0], args[1], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           fmt.Sprintf("show <%s>", names),
		Short:         "Print a section as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionShow(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runSectionSet(opts *RootOptions, name, file string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	kind, ok := sectionKinds[name]
	if !ok {
		return usage(f, fmt.Sprintf("unknown section %q: must be one of %v", name, sectionNames()))
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return failWith(f, ErrCodeNotFound, ExitCommandError, err.Error(), err)
	}
	action, err := kind.decode(data)
	if err != nil {
		return usage(f, fmt.Sprintf("decode %s: %v", file, err))
	}

	return withWorkspace(opts, f, func(ws *workspace) error {
		if _, err := ws.store.DispatchIf(action, ws.store.Version(kind.section)); err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}
		return f.Result(fmt.Sprintf("Replaced %s from %s", name, file), kind.get(ws.store))
	})
}

func runSectionShow(opts *RootOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	kind, ok := sectionKinds[name]
	if !ok {
		return usage(f, fmt.Sprintf("unknown section %q: must be one of %v", name, sectionNames()))
	}
	return withWorkspace(opts, f, func(ws *workspace) error {
		v := kind.get(ws.store)
		text, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fail(f, err)
		}
		return f.Result(string(text), v)
	})
}
