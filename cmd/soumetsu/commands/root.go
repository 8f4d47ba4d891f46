// Package commands implements the CLI commands for the soumetsu server.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soumetsu/soumetsu/internal/bootstrap"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
//
// Invoked bare it acts as the container entrypoint: the APP_COMPONENT
// environment variable selects which component of the image to run.
var rootCmd = &cobra.Command{
	Use:   "soumetsu",
	Short: "soumetsu - private osu! server backend",
	Long: `soumetsu is the backend for a private osu! server: a REST API for
accounts, scores, leaderboards, clans and the other community features,
plus a compatibility layer for the legacy osu! API.

Run without a subcommand the binary dispatches on APP_COMPONENT, so a
single container image can serve as the entrypoint for every component.

Use "soumetsu [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return componentRegistry().RunFromEnv(cmd.Context())
	},
}

// componentRegistry lists every component this image can run. The API
// keeps its historical deployment name so existing manifests stay valid.
func componentRegistry() *bootstrap.Registry {
	reg := bootstrap.NewRegistry()
	reg.Register("fastapi", func(ctx context.Context) error {
		return serve(ctx)
	})
	return reg
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment variables only)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
