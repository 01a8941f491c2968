package clientcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bayleafwalker/bindery-panel/internal/output"
	"github.com/bayleafwalker/bindery-panel/internal/panelrpc"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List modules in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, c, closeFn, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := c.ListModules(ctx, opts.namespace)
			if err != nil {
				return fmt.Errorf("list modules: %w", err)
			}
			output.Debug("listed modules", "count", len(res.Modules), "unresolved", len(res.Unresolved), "errors", len(res.Errors))

			if opts.format != output.FormatTable {
				return opts.writeStructured(cmd.OutOrStdout(), res)
			}
			writeListTable(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func writeListTable(w io.Writer, res panelrpc.ListResult) {
	fmt.Fprintln(w, output.RenderModuleTable(res.Modules))
	for _, u := range res.Unresolved {
		kind := "required"
		if u.Optional {
			kind = "optional"
		}
		output.Warn("unresolved import", "kind", kind, "package", u.Package, "range", u.Range, "consumer", u.Consumer, "id", u.ConsumerID, "reason", u.Reason)
	}
	for _, e := range res.Errors {
		output.Warn("module skipped", "error", e)
	}
}
