package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrschumacher/cognito-jwt/internal/metrics"
	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
	"github.com/jrschumacher/cognito-jwt/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"start"},
	Short:   "Serve token verification over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder, err := metrics.NewRecorder(reg)
		if err != nil {
			return err
		}

		verifier, err := newVerifier(cfg, cognito.WithObserver(recorder))
		if err != nil {
			return err
		}

		fetcher := cognito.NewFetcher(verifierOptions(cfg, cognito.WithRetries(0))...)
		ready := func(ctx context.Context) error {
			_, err := fetcher.Fetch(ctx, verifier.JWKSURL())
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Start(ctx, cfg, server.Deps{
			Verifier: verifier,
			Issuer:   verifier.Issuer().URL(),
			Ready:    ready,
			Gatherer: reg,
		})
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
