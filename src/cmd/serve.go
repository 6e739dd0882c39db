package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"docinspect/src/auth"
	"docinspect/src/server"
	"docinspect/src/settings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errSignalled = errors.New("received shutdown signal")

func newServeCommand(args *settings.Arguments, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspector bridge.",
		Long: `serve listens for debugger frontends on the configured address.

Frontends discover the bridge through /json and connect to the
websocket it advertises. Databases are read from the data directory
on every request, so files added while serving are picked up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(args.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			sm, logger, err := newServiceManager(args, stderr)
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint: errcheck

			var creds *auth.Credentials
			if args.AuthEnabled {
				creds, err = auth.ParseCredentials(args.Users, auth.DefaultHashParams)
				if err != nil {
					return fmt.Errorf("failed to load users: %w", err)
				}
				logger.Infow("Basic auth enabled", "count", creds.Len(), "users", creds.ListUsers())
			}

			srv := server.NewServer(server.Config{
				Host:        args.Host,
				Port:        args.Port,
				Title:       args.Domain,
				Version:     Version,
				Credentials: creds,
			}, sm.Director, logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, srv, stderr)
		},
	}

	flags := serveCmd.Flags()
	flags.StringVar(&args.Host, "host", args.Host, "Host name or IP address to listen on.")
	flags.IntVarP(&args.Port, "port", "p", args.Port, "Port to listen on.")
	flags.BoolVar(&args.AuthEnabled, "auth", false, "Require basic auth on the bridge.")
	flags.StringSliceVar(&args.Users, "users", nil, "Users allowed to connect, as name:password.")
	return serveCmd
}

// run serves until ctx is done or the process is signalled.
func run(ctx context.Context, srv *server.Server, stderr io.Writer) error {
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-sigc:
			fmt.Fprintf(stderr, "Received %s; gracefully shutting down...\n", sig)
			// A second signal forces exit.
			go func() { <-sigc; os.Exit(1) }()
			return errSignalled
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errSignalled) {
		return err
	}
	return nil
}
