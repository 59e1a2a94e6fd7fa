package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/render"
	"github.com/roach88/rollforward/internal/state"
)

// NewProductsCommand creates the products command group.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List or edit the product list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List products",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductsList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "add",
		Short:         "Append a blank product",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProducts(rootOpts, cmd, func(list []model.ProductRecord) ([]model.ProductRecord, string, error) {
				out := edit.AddProduct(list)
				return out, fmt.Sprintf("Added product #%d", len(out)-1), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "set <index> <field> <value>",
		Short:         "Set one field of a product",
		Long:          fmt.Sprintf("Set one field of the product at <index> (0-based). Fields: %v.", edit.ProductFields),
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return usage(rootOpts.formatter(cmd), fmt.Sprintf("invalid index %q", args[0]))
			}
			return editProducts(rootOpts, cmd, func(list []model.ProductRecord) ([]model.ProductRecord, string, error) {
				out, err := edit.UpdateProduct(list, index, args[1], args[2])
				return out, fmt.Sprintf("Set %s of product #%d", args[1], index), err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "remove <index>",
		Short:         "Remove a product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return usage(rootOpts.formatter(cmd), fmt.Sprintf("invalid index %q", args[0]))
			}
			return editProducts(rootOpts, cmd, func(list []model.ProductRecord) ([]model.ProductRecord, string, error) {
				return edit.RemoveProduct(list, index), fmt.Sprintf("Removed product #%d", index), nil
			})
		},
	})

	return cmd
}

func runProductsList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		products, _ := ws.store.Products()
		if len(products) == 0 {
			return f.Result("No products.", products)
		}
		var b strings.Builder
		for i, p := range products {
			fmt.Fprintf(&b, "%d\t%s\t%s\ttank %s\tinventory %s\n",
				i, p.Code, p.Description, render.Number(p.TankCapacity), render.Number(p.CurrentInventory))
		}
		if dups := edit.DuplicateCodes(products); len(dups) > 0 {
			fmt.Fprintf(&b, "warning: duplicate product codes %v\n", dups)
		}
		return f.Result(strings.TrimRight(b.String(), "\n"), products)
	})
}

// editProducts applies fn to the product list and writes it back against
// the version it was read at.
func editProducts(opts *RootOptions, cmd *cobra.Command, fn func([]model.ProductRecord) ([]model.ProductRecord, string, error)) error {
	f := opts.formatter(cmd)
	return withWorkspace(opts, f, func(ws *workspace) error {
		list, version := ws.store.Products()
		updated, message, err := fn(list)
		if err != nil {
			return fail(f, err)
		}
		if _, err := ws.store.DispatchIf(state.SetProducts{Products: updated}, version); err != nil {
			return fail(f, err)
		}
		if err := ws.commit(f); err != nil {
			return err
		}
		return f.Result(message, updated)
	})
}
