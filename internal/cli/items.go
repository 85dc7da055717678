package cli

import (
	"context"
	"strconv"
	"strings"

	"stocktrack/internal/api"
	"stocktrack/internal/model"

	"github.com/spf13/cobra"
)

// itemTable is the table form of an item list.
type itemTable []model.Item

func (t itemTable) Header() []string { return []string{"ID", "NAME", "SKU", "QTY", "DESCRIPTION"} }

func (t itemTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, it := range t {
		desc := strings.ReplaceAll(strings.TrimSpace(it.Description), "\n", " ")
		if r := []rune(desc); len(r) > 40 {
			desc = string(r[:39]) + "…"
		}
		rows = append(rows, []string{it.IDString(), it.Name, it.SKU, strconv.Itoa(it.Quantity), desc})
	}
	return rows
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List, search and change inventory items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsSearchCmd(app))
	cmd.AddCommand(newItemsGetCmd(app))
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsUpdateCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func (app *App) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, app.requestTimeout())
}

func newItemsListCmd(app *App) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items (optionally filtered by --query)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			items, err := app.client().FetchItems(ctx, query)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, itemTable(items))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Name or SKU substring")
	return cmd
}

func newItemsSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by name or SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			items, err := app.client().SearchItems(ctx, args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, itemTable(items))
		},
	}
}

func newItemsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			it, err := app.client().GetItem(ctx, id)
			if err != nil {
				return wrapNotFound(err, id)
			}
			return writeItem(cmd, app, it)
		},
	}
}

type itemFlags struct {
	name        string
	sku         string
	quantity    int
	description string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().StringVar(&f.sku, "sku", "", "Stock keeping unit (unique)")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "Quantity on hand")
	cmd.Flags().StringVar(&f.description, "description", "", "Free-text description (markdown)")
}

// apply overlays the flags that were set on the command line onto it.
func (f *itemFlags) apply(cmd *cobra.Command, it model.Item) model.Item {
	if cmd.Flags().Changed("name") {
		it.Name = strings.TrimSpace(f.name)
	}
	if cmd.Flags().Changed("sku") {
		it.SKU = strings.TrimSpace(f.sku)
	}
	if cmd.Flags().Changed("quantity") {
		it.Quantity = f.quantity
	}
	if cmd.Flags().Changed("description") {
		it.Description = strings.TrimSpace(f.description)
	}
	return it
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			it := f.apply(cmd, model.Item{})
			if err := it.Validate(); err != nil {
				return usageError{err: err}
			}
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			created, err := app.client().CreateItem(ctx, it)
			if err != nil {
				return err
			}
			return writeItem(cmd, app, created)
		},
	}
	f.register(cmd)
	return cmd
}

func newItemsUpdateCmd(app *App) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an item (only the flags given are changed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			c := app.client()

			current, err := c.GetItem(ctx, id)
			if err != nil {
				return wrapNotFound(err, id)
			}
			next := f.apply(cmd, current)
			if err := next.Validate(); err != nil {
				return usageError{err: err}
			}
			updated, err := c.UpdateItem(ctx, id, next)
			if err != nil {
				return wrapNotFound(err, id)
			}
			if updated == nil {
				next = next.WithID(id)
				updated = &next
			}
			return writeItem(cmd, app, *updated)
		},
	}
	f.register(cmd)
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.withTimeout(cmd)
			defer cancel()
			if err := app.client().DeleteItem(ctx, id); err != nil {
				return wrapNotFound(err, id)
			}
			return writeOut(cmd, app, map[string]any{"id": id, "deleted": true})
		},
	}
}

// writeItem prints a single item as an object, or as a one-row table.
func writeItem(cmd *cobra.Command, app *App, it model.Item) error {
	if app.cfg.Format == "table" {
		return writeOut(cmd, app, itemTable{it})
	}
	return writeOut(cmd, app, it)
}

func parseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError{err: errInvalidID(s)}
	}
	return id, nil
}

func wrapNotFound(err error, id int64) error {
	if api.IsNotFound(err) {
		return errNotFound("item", strconv.FormatInt(id, 10))
	}
	return err
}
