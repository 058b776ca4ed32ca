package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var downloadOutputFlag string

var downloadCmd = &cobra.Command{
	Use:   "download SUBTITLE_ID",
	Short: "Download a subtitle file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("subtitle id must be an integer, got %q", args[0])
		}

		client := newClient()
		handle, err := client.Download(cmd.Context(), id)
		if err != nil {
			reportAndPrint(cmd, err)
			return err
		}
		defer handle.Close()

		path := downloadOutputFlag
		if path == "" {
			path = handle.Filename
		}

		dest, err := os.Create(path)
		if err != nil {
			reportAndPrint(cmd, err)
			return err
		}
		defer dest.Close()

		if _, err := io.Copy(dest, handle.Body); err != nil {
			reportAndPrint(cmd, err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded: %s\n", path)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutputFlag, "output", "o", "", "output file path (defaults to the archive's own filename)")
}
