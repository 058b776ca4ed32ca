// Package metrics holds the library's internal Prometheus instrumentation.
// No metrics HTTP server is started here: a caller embedding the library
// registers these collectors with its own registry if it wants to expose
// them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog/search scraping metrics
var (
	ScrapeRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animesubinfo_scrape_records_total",
			Help: "Total number of subtitle records extracted from scraped pages.",
		},
		[]string{"scraper"},
	)

	ScrapeChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animesubinfo_scrape_chunks_total",
			Help: "Total number of HTML chunks fed into a streaming scraper.",
		},
		[]string{"scraper"},
	)
)

// Fitness scoring metrics
var (
	FitnessScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animesubinfo_fitness_scores_total",
			Help: "Total number of fitness scores computed, by whether they passed the hard filters.",
		},
		[]string{"result"},
	)

	FitnessScoreValue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "animesubinfo_fitness_last_score",
			Help: "The most recently computed non-zero fitness score.",
		},
	)
)

// Download/extract pipeline metrics
var (
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animesubinfo_downloads_total",
			Help: "Total number of subtitle archive downloads, by outcome.",
		},
		[]string{"status"},
	)

	ArchiveExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animesubinfo_archive_extractions_total",
			Help: "Total number of archive entry selections, by whether a fitness match was found or the fallback entry was used.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ScrapeRecordsTotal,
		ScrapeChunksTotal,
		FitnessScoresTotal,
		FitnessScoreValue,
		DownloadsTotal,
		ArchiveExtractionsTotal,
	)
}
