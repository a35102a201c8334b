// Package metrics exposes catalog counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services need from metrics.
type Recorder interface {
	RecordLogin(success bool)
	RecordAuthRejected()
	RecordBookChange(op string)
	RecordReviewCreated(score int)
}

type Collector struct {
	logins       *prometheus.CounterVec
	authRejected prometheus.Counter
	bookChanges  *prometheus.CounterVec
	reviews      prometheus.Counter
	scores       prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"result"}),
		authRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_auth_rejected_total",
			Help: "Requests rejected because the bearer token did not resolve to a user.",
		}),
		bookChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_book_changes_total",
			Help: "Book writes by operation.",
		}, []string{"op"}),
		reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_reviews_created_total",
			Help: "Reviews stored.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_review_score",
			Help:    "Distribution of review scores.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	reg.MustRegister(c.logins, c.authRejected, c.bookChanges, c.reviews, c.scores)
	return c
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordAuthRejected() {
	c.authRejected.Inc()
}

func (c *Collector) RecordBookChange(op string) {
	c.bookChanges.WithLabelValues(op).Inc()
}

func (c *Collector) RecordReviewCreated(score int) {
	c.reviews.Inc()
	c.scores.Observe(float64(score))
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop drops every observation.
type Nop struct{}

func (Nop) RecordLogin(bool)        {}
func (Nop) RecordAuthRejected()     {}
func (Nop) RecordBookChange(string) {}
func (Nop) RecordReviewCreated(int) {}
