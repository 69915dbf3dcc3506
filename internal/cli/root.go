// Package cli implements the cobra command tree: flag parsing into a
// config.RuntimeConfig, app initialization, and dispatch to the run/version
// commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/catapult-run/catapult/internal/app"
	"github.com/catapult-run/catapult/internal/domain/config"
)

type contextKey string

const appKey contextKey = "app"

// NewRootCmd builds the catapult root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catapult",
		Short: "Declarative smart-contract deployment orchestrator",
		Long: `catapult runs declarative deployment jobs against one or more EVM
networks: resolving value expressions, dispatching templated and
plugin-contributed actions, and reporting progress as a structured
event stream.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := resolveRuntimeConfig(cmd)
			if err != nil {
				return fmt.Errorf("resolve configuration: %w", err)
			}

			a, err := app.InitApp(cfg)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	// Accept both "no-color" and "no_color" spellings from env/flag sources.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringP("project", "C", ".", "project root directory")
	rootCmd.PersistentFlags().StringSliceP("network", "n", nil, "target network(s); default is every declared network")
	rootCmd.PersistentFlags().StringSliceP("job", "j", nil, "target job(s); default is every declared job")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase event verbosity (repeatable, 0-3)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "resolve and plan without broadcasting transactions")
	rootCmd.PersistentFlags().Bool("parallel", false, "run target networks concurrently")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// resolveRuntimeConfig assembles a config.RuntimeConfig from persistent
// flags and the environment; private keys are resolved later, per network,
// by internal/adapters/network.
func resolveRuntimeConfig(cmd *cobra.Command) (*config.RuntimeConfig, error) {
	root, _ := cmd.Flags().GetString("project")
	networks, _ := cmd.Flags().GetStringSlice("network")
	jobs, _ := cmd.Flags().GetStringSlice("job")
	verboseCount, _ := cmd.Flags().GetCount("verbose")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	parallel, _ := cmd.Flags().GetBool("parallel")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if verboseCount > 3 {
		verboseCount = 3
	}

	absRoot, err := resolveProjectRoot(root)
	if err != nil {
		return nil, err
	}

	return &config.RuntimeConfig{
		ProjectRoot: absRoot,
		Networks:    networks,
		Jobs:        jobs,
		Verbosity:   verboseCount,
		DryRun:      dryRun,
		Parallel:    parallel,
		NoColor:     noColor || os.Getenv("NO_COLOR") != "",
		PrivateKeys: map[string]string{},
	}, nil
}

func getApp(cmd *cobra.Command) (*app.App, error) {
	a, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
