package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/bittrex-client/bittrex"
)

// Call outcomes recorded on bittrex_requests_total.
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed"
	OutcomeMisuse    = "misuse"
)

// Collector records dispatcher, poller and writer metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	pollCycles   prometheus.Counter
	pollFailures *prometheus.CounterVec

	rowsWritten  prometheus.Counter
	rowsSkipped  prometheus.Counter
	writeErrors  prometheus.Counter
	flushLatency prometheus.Histogram
}

// NewCollector creates a Collector with Go and process collectors attached.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bittrex_requests_total",
			Help: "Bittrex API calls by category, call and outcome.",
		}, []string{"category", "call", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bittrex_request_duration_seconds",
			Help:    "Bittrex API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"category", "call"}),
		pollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bittrex_poll_cycles_total",
			Help: "Completed market summary poll cycles.",
		}),
		pollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bittrex_poll_failures_total",
			Help: "Market summary fetches that failed, by market.",
		}, []string{"market"}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bittrex_rows_written_total",
			Help: "Market summary rows inserted.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bittrex_rows_skipped_total",
			Help: "Market summary rows skipped as duplicates.",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bittrex_write_errors_total",
			Help: "Market summary rows that failed to insert.",
		}),
		flushLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bittrex_flush_duration_seconds",
			Help:    "Writer batch flush latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.pollCycles,
		c.pollFailures,
		c.rowsWritten,
		c.rowsSkipped,
		c.writeErrors,
		c.flushLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveCall implements bittrex.Observer.
func (c *Collector) ObserveCall(category bittrex.Category, call string, elapsed time.Duration, err error) {
	cat := category.String()
	c.requests.WithLabelValues(cat, call, Outcome(err)).Inc()
	c.duration.WithLabelValues(cat, call).Observe(elapsed.Seconds())
}

// PollCycle records a finished poll cycle and its per-market failures.
func (c *Collector) PollCycle(failedMarkets []string) {
	c.pollCycles.Inc()
	for _, m := range failedMarkets {
		c.pollFailures.WithLabelValues(m).Inc()
	}
}

// Flush records the result of one writer batch.
func (c *Collector) Flush(inserted, skipped, failed int, elapsed time.Duration) {
	c.rowsWritten.Add(float64(inserted))
	c.rowsSkipped.Add(float64(skipped))
	c.writeErrors.Add(float64(failed))
	c.flushLatency.Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a dispatcher error into a bittrex_requests_total label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	var apiErr *bittrex.APIError
	var statusErr *bittrex.StatusError
	var transportErr *bittrex.TransportError

	switch {
	case errors.As(err, &apiErr):
		return OutcomeAPIError
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.As(err, &transportErr):
		return OutcomeTransport
	case errors.Is(err, bittrex.ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeMisuse
	}
}

var _ bittrex.Observer = (*Collector)(nil)
