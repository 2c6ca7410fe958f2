package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/sensor"
)

// CreateReadingsCmd builds the one-shot readings command. It probes the
// hardware once, prints the reading set as JSON, and exits.
func CreateReadingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readings",
		Short: "Print current volume readings as JSON",
		Long:  `Probes every playback sound card once and prints volume and mute state per device, keyed card_N_device_M.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")
			pretty, _ := cmd.Flags().GetBool("pretty")

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			mixer := alsa.NewMixer(alsa.NewRunner())
			readings := sensor.New(mixer, nil, nil).Readings(ctx)

			enc := json.NewEncoder(os.Stdout)
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(readings); err != nil {
				return fmt.Errorf("failed to encode readings: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Duration("timeout", 30*time.Second, "Overall probe timeout")
	cmd.Flags().BoolP("pretty", "P", false, "Indent JSON output")
	return cmd
}
