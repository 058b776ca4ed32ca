package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/animesubinfo/animesubinfo"
)

var (
	searchSortFlag  string
	searchTypeFlag  string
	searchLimitFlag int
	searchJSONFlag  bool
)

var searchCmd = &cobra.Command{
	Use:   "search TITLE",
	Short: "Search for anime subtitles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sortBy, ok := animesubinfo.ParseSortBy(strings.ToLower(searchSortFlag))
		if !ok {
			return fmt.Errorf("invalid sort value %q", strings.ToLower(searchSortFlag))
		}
		titleType, ok := animesubinfo.ParseTitleType(strings.ToLower(searchTypeFlag))
		if !ok {
			return fmt.Errorf("invalid type value %q", strings.ToLower(searchTypeFlag))
		}
		if searchLimitFlag <= 0 {
			return fmt.Errorf("limit must be a positive integer, got %d", searchLimitFlag)
		}

		client := newClient()
		stream := client.Search(cmd.Context(), args[0], sortBy, titleType, 0)

		var records []animesubinfo.SubtitleRecord
		for stream.Next() && len(records) < searchLimitFlag {
			records = append(records, stream.Record())
		}
		if err := stream.Err(); err != nil {
			reportAndPrint(cmd, err)
			return err
		}

		if searchJSONFlag {
			return printSearchJSON(cmd, records)
		}
		printSearchTable(cmd, records)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchSortFlag, "sort", "s", "traf", "sort order: traf, datad, pobrn")
	searchCmd.Flags().StringVarP(&searchTypeFlag, "type", "t", "org", "title type: org, en, pl, jp")
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "l", 20, "maximum number of results")
	searchCmd.Flags().BoolVarP(&searchJSONFlag, "json", "j", false, "print results as JSON")
}

func printSearchJSON(cmd *cobra.Command, records []animesubinfo.SubtitleRecord) error {
	rendered := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		rendered = append(rendered, toJSONRecord(r))
	}
	encoded, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func printSearchTable(cmd *cobra.Command, records []animesubinfo.SubtitleRecord) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No results found")
		return
	}
	fmt.Fprintf(out, "Found %d subtitle(s)\n", len(records))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Title", "Episode", "Date", "Downloads"})
	for _, r := range records {
		title := r.OriginalTitle
		if title == "" {
			title = r.EnglishTitle
		}
		table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			title,
			episodeLabel(r),
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", r.DownloadedTimes),
		})
	}
	table.Render()
}
