package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/animesubinfo/animesubinfo"
)

var findJSONFlag bool

var findCmd = &cobra.Command{
	Use:   "find FILE",
	Short: "Find the best matching subtitle for a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "File not found")
			return fmt.Errorf("file not found: %s", file)
		}

		client := newClient()
		record, err := client.FindBest(cmd.Context(), filepath.Base(file))
		if err != nil {
			reportAndPrint(cmd, err)
			return err
		}

		if findJSONFlag {
			return printFindJSON(cmd, record)
		}
		if record == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching subtitle found")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Best match for %s: #%d (%s)\n", file, record.ID, episodeLabel(*record))
		return nil
	},
}

func init() {
	findCmd.Flags().BoolVarP(&findJSONFlag, "json", "j", false, "print the result as JSON")
}

func printFindJSON(cmd *cobra.Command, record *animesubinfo.SubtitleRecord) error {
	var payload any
	if record != nil {
		rendered := toJSONRecord(*record)
		payload = rendered
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
