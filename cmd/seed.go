/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daffahilmyf/mdd-seed/internal/bootstrap"
	"github.com/daffahilmyf/mdd-seed/internal/config"
	"github.com/spf13/cobra"
)

var (
	seedCount  int
	seedRandom int64
	seedOutput string
	seedAPIURL string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run one seeding batch against the database and registration API",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(1)
		}
		applySeedFlags(cmd, &cfg)

		if err := bootstrap.Seed(ctx, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "seed error:", err)
			os.Exit(1)
		}
	},
}

func applySeedFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Seed.Users = seedCount
	}
	if flags.Changed("seed") {
		cfg.Seed.RandomSeed = seedRandom
	}
	if flags.Changed("output") {
		cfg.Seed.Output = seedOutput
	}
	if flags.Changed("api-url") {
		cfg.API.BaseURL = config.NormalizeAPIURL(seedAPIURL)
	}
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 15, "number of users to provision")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 0, "random seed (0 picks one from the clock)")
	seedCmd.Flags().StringVar(&seedOutput, "output", "", "credentials manifest path")
	seedCmd.Flags().StringVar(&seedAPIURL, "api-url", "", "registration API base url")
	rootCmd.AddCommand(seedCmd)
}
