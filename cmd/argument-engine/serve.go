package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/argument-engine/internal/analyze"
	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyze operation over HTTP",
	Long: `Serve starts an HTTP server exposing POST /analyze, GET /healthz, and
GET /metrics. The server runs until interrupted and then drains in-flight
requests before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		m := metrics.NewPipeline()
		svc := analyze.NewService(cfg, logger, m)
		srv := server.New(cfg.Server, svc, m, logger.Named("http"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("listen", ":8000", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))

	rootCmd.AddCommand(serveCmd)
}
