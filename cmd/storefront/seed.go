package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
)

func newSeedCmd(env *string) *cobra.Command {
	var (
		batchSize  int
		randomSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo shirt catalogue into the vector index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, *env)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Index.Driver == config.DriverMemory {
				a.logger.Warn("Seeding the memory driver only lasts for this process")
			}
			if batchSize > 0 {
				a.cfg.Seed.BatchSize = batchSize
			}
			if cmd.Flags().Changed("seed") {
				a.cfg.Seed.RandomSeed = randomSeed
			}

			n, err := a.seeder().Run(ctx)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			a.logger.Info("Catalogue seeded",
				zap.String("index", a.cfg.Index.Name),
				zap.Int("products", n),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products into %s\n", n, a.cfg.Index.Name)
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Products per upsert call (default from config)")
	cmd.Flags().Int64Var(&randomSeed, "seed", 0, "PRNG seed for prices (default from config)")
	return cmd
}
