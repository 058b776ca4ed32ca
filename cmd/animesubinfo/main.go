// Command animesubinfo is a small CLI over the animesubinfo client:
// searching the catalog, finding the best match for a video file, and
// downloading the matched subtitle.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
