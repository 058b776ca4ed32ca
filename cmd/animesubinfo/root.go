package main

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/animesubinfo/animesubinfo"
	"github.com/animesubinfo/animesubinfo/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "animesubinfo",
	Short:         "Search, find and download subtitles from the legacy animesub.info catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.EnsureSentry()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		sentry.Flush(2 * time.Second)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd, findCmd, downloadCmd, bestCmd)
}

func newClient() *animesubinfo.Client {
	return animesubinfo.New(config.GetConfig())
}

// reportAndPrint sends err to Sentry (if configured) and prints it to the
// command's error stream.
func reportAndPrint(cmd *cobra.Command, err error) {
	sentry.CaptureException(err)
	fmt.Fprintln(cmd.ErrOrStderr(), err)
}
