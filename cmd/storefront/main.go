package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var env string

	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront product filtering service",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")

	rootCmd.AddCommand(
		newServeCmd(&env),
		newSeedCmd(&env),
		newQueryCmd(),
	)
	return rootCmd
}
