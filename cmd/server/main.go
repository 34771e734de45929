// Package main implements the entry point for the taskhub server, an
// in-memory task tracking service exposed over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phrazzld/taskhub/internal/config"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const serviceName = "taskhub"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(run).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the server command around runFn. Flags are bound to
// a private viper instance so they take precedence over environment and file
// values.
func newRootCommand(runFn func(context.Context, *config.Config) error) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "In-memory task tracking service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWith(v)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.ConfigFileKey, "c", "", "config file (yaml, json or toml)")
	flags.IntP("port", "p", config.DefaultPort, "HTTP listen port")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	_ = v.BindPFlag(config.ConfigFileKey, flags.Lookup(config.ConfigFileKey))
	_ = v.BindPFlag("server.port", flags.Lookup("port"))
	_ = v.BindPFlag("server.log_level", flags.Lookup("log-level"))

	return cmd
}

// run builds the application and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	app, err := newApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}
