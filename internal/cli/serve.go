package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gravitas-games/hexgeo/internal/logging"
	"github.com/gravitas-games/hexgeo/internal/server"
)

type serveOptions struct {
	host string
	port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket query service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				rootOpts.config.Server.Host = opts.host
			}
			if cmd.Flags().Changed("port") {
				rootOpts.config.Server.Port = opts.port
			}
			return runServe(cmd.Context(), rootOpts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	cfg := opts.config
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping", "reason", context.Cause(gctx))
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
