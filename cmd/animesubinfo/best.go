package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var bestCmd = &cobra.Command{
	Use:   "best FILE",
	Short: "Find and download the best matching subtitle for a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "File not found")
			return fmt.Errorf("file not found: %s", file)
		}

		name := filepath.Base(file)
		client := newClient()
		record, err := client.FindBest(cmd.Context(), name)
		if err != nil {
			reportAndPrint(cmd, err)
			return err
		}
		if record == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching subtitle found")
			return fmt.Errorf("no matching subtitle found for %s", file)
		}

		extracted, err := client.DownloadAndExtract(cmd.Context(), name, *record)
		if err != nil {
			reportAndPrint(cmd, err)
			return err
		}

		ext := filepath.Ext(extracted.Filename)
		base := strings.TrimSuffix(file, filepath.Ext(file))
		outPath := base + ext

		if err := os.WriteFile(outPath, extracted.Content, 0o644); err != nil {
			reportAndPrint(cmd, err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", outPath)
		return nil
	},
}
