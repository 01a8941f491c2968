package clientcmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bayleafwalker/bindery-panel/internal/output"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <module-id>",
		Short: "Show one module with its imports, exports and services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 0 {
				return fmt.Errorf("invalid module id %q", args[0])
			}

			ctx, c, closeFn, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := c.GetModule(ctx, opts.namespace, id)
			if err != nil {
				return fmt.Errorf("get module %d: %w", id, err)
			}

			if opts.format != output.FormatTable {
				return opts.writeStructured(cmd.OutOrStdout(), rec)
			}
			fmt.Fprint(cmd.OutOrStdout(), output.RenderModuleDetail(rec))
			return nil
		},
	}
}
