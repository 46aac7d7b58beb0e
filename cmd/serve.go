package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views as a JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		s := settings()
		addr := serveAddr
		if addr == "" {
			addr = s.HTTPAddr
		}
		g, err := analysis.ParseGranularity(s.Granularity)
		if err != nil {
			return err
		}
		api := httpapi.New(e, logger, httpapi.Defaults{
			Station:       s.DefaultStation,
			Granularity:   g,
			SearchLimit:   s.SearchLimit,
			HistogramBins: s.HistogramBins,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logger
		if log == nil {
			log = slog.Default()
		}
		log.Info("starting", "version", version, "stations", len(e.Stations()), "rows", e.Data().Len())
		err = httpapi.Run(ctx, httpapi.NewHTTPServer(addr, api.Router()), log)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from http_addr)")
}
