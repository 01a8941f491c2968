// Package clientcmd implements the module-panel command line client.
package clientcmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bayleafwalker/bindery-panel/internal/output"
	"github.com/bayleafwalker/bindery-panel/internal/panelrpc"
)

// DialFunc opens the connection to the panel server.
type DialFunc func(target string) (*grpc.ClientConn, error)

// DialInsecure connects without transport security, the way the panel server listens.
func DialInsecure(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

type globalOptions struct {
	target    string
	namespace string
	output    string
	timeout   time.Duration
	verbose   bool

	dial   DialFunc
	format output.Format
}

// NewRootCmd creates the module-panel root command. A nil dial uses DialInsecure.
func NewRootCmd(dial DialFunc) *cobra.Command {
	if dial == nil {
		dial = DialInsecure
	}
	opts := &globalOptions{dial: dial}

	rootCmd := &cobra.Command{
		Use:           "module-panel",
		Short:         "Inspect the module registry",
		Long:          `module-panel lists installed modules, their package wiring and published services from a running panel server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetupLogging(cmd.ErrOrStderr(), opts.verbose)
			f, err := output.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			opts.format = f
			output.Debug("initializing client", "target", opts.target, "namespace", opts.namespace, "output", f)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.target, "target", "127.0.0.1:9090", "Panel server gRPC address")
	rootCmd.PersistentFlags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to read (server default when empty)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(output.FormatTable), "Output format: table, json, yaml")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))

	return rootCmd
}

// connect dials the server and returns a client bound to a timeout context.
func (o *globalOptions) connect(ctx context.Context) (context.Context, *panelrpc.Client, func(), error) {
	conn, err := o.dial(o.target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial %s: %w", o.target, err)
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	closeFn := func() {
		cancel()
		_ = conn.Close()
	}
	return ctx, panelrpc.NewClient(conn), closeFn, nil
}

func (o *globalOptions) writeStructured(w io.Writer, v any) error {
	return output.Write(w, o.format, v)
}
