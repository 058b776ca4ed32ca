package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_ScrapeRecordsTotal(t *testing.T) {
	before := getCounterVecValue(ScrapeRecordsTotal, "catalog")
	ScrapeRecordsTotal.WithLabelValues("catalog").Inc()
	after := getCounterVecValue(ScrapeRecordsTotal, "catalog")

	if after != before+1 {
		t.Errorf("expected catalog scrape counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_ScrapeChunksTotal(t *testing.T) {
	before := getCounterVecValue(ScrapeChunksTotal, "search")
	ScrapeChunksTotal.WithLabelValues("search").Inc()
	after := getCounterVecValue(ScrapeChunksTotal, "search")

	if after != before+1 {
		t.Errorf("expected search chunk counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_FitnessScoresTotal(t *testing.T) {
	before := getCounterVecValue(FitnessScoresTotal, "passed")
	FitnessScoresTotal.WithLabelValues("passed").Inc()
	after := getCounterVecValue(FitnessScoresTotal, "passed")

	if after != before+1 {
		t.Errorf("expected passed counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_FitnessScoreValue(t *testing.T) {
	FitnessScoreValue.Set(25958)
	val := getGaugeValue(FitnessScoreValue)

	if val != 25958 {
		t.Errorf("expected last score 25958, got %.0f", val)
	}

	FitnessScoreValue.Set(0)
}

func TestMetrics_DownloadsTotal(t *testing.T) {
	before := getCounterVecValue(DownloadsTotal, "success")
	DownloadsTotal.WithLabelValues("success").Inc()
	after := getCounterVecValue(DownloadsTotal, "success")

	if after != before+1 {
		t.Errorf("expected success counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_ArchiveExtractionsTotal(t *testing.T) {
	before := getCounterVecValue(ArchiveExtractionsTotal, "fallback")
	ArchiveExtractionsTotal.WithLabelValues("fallback").Inc()
	after := getCounterVecValue(ArchiveExtractionsTotal, "fallback")

	if after != before+1 {
		t.Errorf("expected fallback counter to increment by 1, got diff %.0f", after-before)
	}
}
