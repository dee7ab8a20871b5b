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
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/daffahilmyf/mdd-seed/internal/infra/messaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow seed.batch.committed events from JetStream",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(1)
		}
		log, err := bootstrap.BuildLogger(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "log error:", err)
			os.Exit(1)
		}

		client, err := messaging.NewNATS(ctx, cfg.NATS)
		if err != nil {
			fmt.Fprintln(os.Stderr, "nats error:", err)
			os.Exit(1)
		}
		if client == nil {
			fmt.Fprintln(os.Stderr, "nats error: nats url is required")
			os.Exit(1)
		}
		defer client.Close()

		log.Infof("events: listening on %s (durable=%s)", cfg.NATS.BatchSubject, cfg.NATS.ConsumerDurable)
		err = client.ConsumeBatchCommitted(ctx, func(e service.BatchCommitted) error {
			log.WithFields(logrus.Fields{
				"batch_id":      e.BatchID,
				"users":         e.Users,
				"subscriptions": e.Subscriptions,
				"articles":      e.Articles,
				"comments":      e.Comments,
				"manifest":      e.Manifest,
			}).Info("batch committed")
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "events error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
