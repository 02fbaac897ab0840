package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/berfenger/goxlr2mqtt/internal/config"
	"github.com/berfenger/goxlr2mqtt/internal/core/entity"
	"github.com/berfenger/goxlr2mqtt/internal/core/events"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type describedEntity struct {
	UniqueId string `json:"unique_id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Device   string `json:"device"`
}

func newDescribeCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Connect once to the GoXLR Utility and print the entities that would be exposed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			reader, err := goxlr.CreateWebsocketReader(cfg.GoXLR.Host, cfg.GoXLR.Port, cfg.GoXLR.RequestTimeout(), logger, nil)
			if err != nil {
				return err
			}
			if err := reader.Open(); err != nil {
				return err
			}
			defer reader.Close()

			status, err := reader.GetStatus()
			if err != nil {
				return err
			}
			mixer, err := status.Mixer(cfg.GoXLR.Serial)
			if err != nil {
				return err
			}
			described, err := describe(cfg, mixer)
			if err != nil {
				logger.Warn("some entities were skipped", zap.Error(err))
			}
			return printDescribed(cmd.OutOrStdout(), described, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func describe(cfg *config.Config, mixer *goxlr.MixerStatus) ([]describedEntity, error) {
	conn := entity.Connection{Host: cfg.GoXLR.Host, Port: cfg.GoXLR.Port}
	bridge := events.BridgeDevice(cfg.MQTT.BaseTopic)
	sensors, lights, err := events.MixerEntities(mixer, conn, bridge.Id)

	var described []describedEntity
	for _, s := range sensors {
		described = append(described, describedEntity{
			UniqueId: s.UniqueId,
			Name:     s.Name,
			Platform: s.SensorType,
			Device:   s.Device.Id,
		})
	}
	for _, l := range lights {
		described = append(described, describedEntity{
			UniqueId: l.UniqueId,
			Name:     l.Name,
			Platform: "light",
			Device:   l.Device.Id,
		})
	}
	return described, err
}

func printDescribed(w io.Writer, described []describedEntity, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(described)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIQUE ID\tNAME\tPLATFORM\tDEVICE")
	for _, d := range described {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.UniqueId, d.Name, d.Platform, d.Device)
	}
	return tw.Flush()
}
