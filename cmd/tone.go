package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/audionode/internal/alsa"
)

// CreateToneCmd builds the test tone command for verifying audio output.
func CreateToneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Play a test tone on a playback device",
		Long:  `Plays one cycle of the speaker-test wav tone on the selected card and device. Useful for checking which physical output a card index maps to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			card, _ := cmd.Flags().GetInt("card")
			device, _ := cmd.Flags().GetInt("device")
			channels, _ := cmd.Flags().GetInt("channels")

			mixer := alsa.NewMixer(alsa.NewRunner())
			output, err := mixer.PlayTest(context.Background(), card, device, channels)
			if err != nil {
				return fmt.Errorf("test tone failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntP("card", "c", 0, "Sound card index")
	cmd.Flags().IntP("device", "d", 0, "Playback device index")
	cmd.Flags().Int("channels", 2, "Channel count (1-8)")
	return cmd
}
