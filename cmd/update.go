package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/smazurov/audionode/internal/version"
)

const repositorySlug = "smazurov/audionode"

// CreateUpdateCmd builds the self-update command. It checks the GitHub
// releases of the project and replaces the running binary in place.
func CreateUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update audionode to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkOnly, _ := cmd.Flags().GetBool("check")
			prerelease, _ := cmd.Flags().GetBool("prerelease")
			return runUpdate(cmd.Context(), cmd, checkOnly, prerelease)
		},
	}

	cmd.Flags().Bool("check", false, "Only check for a newer release, do not install")
	cmd.Flags().Bool("prerelease", false, "Consider prerelease versions")
	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, checkOnly, prerelease bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return fmt.Errorf("failed to create GitHub source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: prerelease,
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	repo := selfupdate.ParseSlug(repositorySlug)
	release, found, err := updater.DetectLatest(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no releases found for %s", repositorySlug)
	}

	current := version.Version
	// dev builds are always considered outdated
	if current != "dev" && !release.GreaterThan(current) {
		fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s)\n", current)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n", current, release.Version())
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := updater.UpdateTo(ctx, release, exe); err != nil {
		return fmt.Errorf("failed to apply update: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", release.Version())
	return nil
}
