package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"drishti-cli/internal/config"
	"drishti-cli/internal/metrics"
)

var serviceAction string // "install", "uninstall", "start", "stop"

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	settings *config.Settings
	logger   zerolog.Logger

	server *http.Server
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	collector := metrics.NewCollector(nil)
	pl, err := newPipeline(p.settings, p.logger, io.Discard, collector)
	if err != nil {
		cancel()
		return err
	}
	collector.Session = pl.Session

	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.New(p.logger, "", 0),
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	addr := fmt.Sprintf(":%s", p.settings.Exporter.Port)
	p.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		defer close(p.done)
		pl.Run(ctx)
	}()

	go func() {
		p.logger.Info().Str("addr", addr).Msg("exporter listening")
		// Blocking call to listen
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.logger.Error().Err(err).Msg("http server error")
		}
	}()

	return nil
}

func (p *program) Stop(s service.Service) error {
	p.logger.Info().Msg("stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("server forced to shutdown")
		}
	}
	if p.cancel != nil {
		p.cancel()
		select {
		case <-p.done:
		case <-ctx.Done():
		}
	}
	return nil
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that polls the backend and exposes
alert, soldier and escalation metrics on /metrics.
Can be installed as a system service.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		_ = viper.BindPFlag("exporter.port", cmd.Flags().Lookup("port"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSettings()
		logger := newLogger(s).With().Str("component", "exporter").Logger()

		// Arguments passed to the binary when run as a service
		svcArgs := []string{"exporter", "--base-url", s.BaseURL, "--port", s.Exporter.Port}
		if cfgFile != "" {
			svcArgs = append(svcArgs, "--config", cfgFile)
		}

		svcConfig := &service.Config{
			Name:        "drishti-exporter",
			DisplayName: "VeerDrishti Prometheus Exporter",
			Description: "Exposes VeerDrishti alert and soldier metrics to Prometheus",
			Arguments:   svcArgs,
		}

		prg := &program{settings: s, logger: logger}

		svc, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if err := service.Control(svc, serviceAction); err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively without flags
		if err := svc.Run(); err != nil {
			logger.Error().Err(err).Msg("service exited")
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().String("port", "", "Port to listen on (default 9110)")

	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
