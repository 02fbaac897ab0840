package main

import (
	"log/slog"
	"os"

	"github.com/berfenger/goxlr2mqtt/internal/config"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:          "goxlr2mqtt",
		Short:        "Bridge a GoXLR mixer to Home Assistant over MQTT",
		Version:      versioninfo.Short(),
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newDescribeCommand())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config errors", "error", err)
		return nil, err
	}
	slog.Info("Using", "config", cfg.Redacted())
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zap.Must(zapCfg.Build())
}
