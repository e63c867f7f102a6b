package phc

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	converterPrometheusMetrics sync.Once

	converterImagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phc",
			Subsystem: "converter",
			Name:      "images_total",
			Help:      "Number of source images processed, by whether they were converted, reused from the catalog or failed to decode.",
		},
		[]string{"outcome"})
	converterBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phc",
			Subsystem: "converter",
			Name:      "bytes_total",
			Help:      "Number of bytes of source files read, of raw RGB565 pixel data they hold and of PHC files written.",
		},
		[]string{"kind"})
)

const (
	outcomeConverted = "converted"
	outcomeCached    = "cached"
	outcomeFailed    = "failed"
)

func registerMetrics() {
	converterPrometheusMetrics.Do(func() {
		prometheus.MustRegister(converterImagesTotal)
		prometheus.MustRegister(converterBytesTotal)
	})
}

func observe(outcome string, r *Report) {
	converterImagesTotal.WithLabelValues(outcome).Inc()
	if r == nil {
		return
	}
	converterBytesTotal.WithLabelValues("source").Add(float64(r.SourceBytes))
	converterBytesTotal.WithLabelValues("raw").Add(float64(r.RawBytes))
	converterBytesTotal.WithLabelValues("phc").Add(float64(r.FileBytes))
}

// WriteMetrics writes the current metrics to path in the text exposition
// format, suitable for the node exporter textfile collector
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
