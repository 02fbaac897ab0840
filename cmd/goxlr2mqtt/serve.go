package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/berfenger/goxlr2mqtt/internal/adapter/actor"
	"github.com/berfenger/goxlr2mqtt/internal/config"
	"github.com/berfenger/goxlr2mqtt/internal/core/actor"
	"github.com/berfenger/goxlr2mqtt/internal/core/domain"
	"github.com/berfenger/goxlr2mqtt/internal/metrics"
	"github.com/berfenger/goxlr2mqtt/internal/server"
	"github.com/berfenger/goxlr2mqtt/internal/util/actorutil"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func gracefulShutdown(ctx context.Context, apiServer *http.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	m := metrics.New(prometheus.DefaultRegisterer)

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	root := as.Root

	reader, err := goxlr.CreateWebsocketReader(cfg.GoXLR.Host, cfg.GoXLR.Port, cfg.GoXLR.RequestTimeout(),
		logger, []goxlr.Instrument{m.Instrument()})
	if err != nil {
		return err
	}

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, goxlrActorProvider(cfg, reader, logger),
			mqttActorProvider(cfg, m, logger), m, logger)
	})
	pid, err := root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		return err
	}

	srv := server.NewServer(*cfg, root, pid, promhttp.Handler())
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(ctx, srv, logger, done)

	logger.Info("listening", zap.String("addr", srv.Addr))
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	logger.Info("graceful shutdown complete")

	root.Stop(pid)
	as.Shutdown()
	return nil
}

func goxlrActorProvider(cfg *config.Config, reader goxlr.StatusReader, logger *zap.Logger) actor.GoXLRActorProvider {
	return func() *adactor.GoXLRActor {
		return adactor.NewGoXLRActor(reader, cfg.GoXLR.Serial, cfg.GoXLR.RequestTimeout(), logger)
	}
}

func mqttActorProvider(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, m, logger)
	}
}
