// Package metrics provides Prometheus instrumentation for token verification
// and key set retrieval.
package metrics

import (
	"time"

	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the Prometheus namespace for all metrics
	Namespace = "cognito_jwt"

	LabelOutcome = "outcome"
	LabelStatus  = "status"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder implements cognito.Observer on top of Prometheus collectors.
type Recorder struct {
	verifications        *prometheus.CounterVec
	verificationDuration prometheus.Histogram
	fetches              *prometheus.CounterVec
	fetchDuration        prometheus.Histogram
}

var _ cognito.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "verifications_total",
				Help:      "Total number of token verifications by outcome",
			},
			[]string{LabelOutcome},
		),
		verificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "verification_duration_seconds",
				Help:      "Duration of token verifications in seconds, including key set retrieval",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "jwks",
				Name:      "fetches_total",
				Help:      "Total number of key set fetches by status",
			},
			[]string{LabelStatus},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "jwks",
				Name:      "fetch_duration_seconds",
				Help:      "Duration of key set fetches in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
	}

	for _, c := range []prometheus.Collector{r.verifications, r.verificationDuration, r.fetches, r.fetchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Pre-create outcome series so dashboards see zeros.
	for _, reason := range []cognito.Reason{
		cognito.ReasonNone,
		cognito.ReasonMalformed,
		cognito.ReasonFetchError,
		cognito.ReasonKeyNotFound,
		cognito.ReasonSignatureInvalid,
	} {
		r.verifications.WithLabelValues(reason.String())
	}
	return r, nil
}

// ObserveVerification records the outcome of one Verify call.
func (r *Recorder) ObserveVerification(reason cognito.Reason, elapsed time.Duration) {
	r.verifications.WithLabelValues(reason.String()).Inc()
	r.verificationDuration.Observe(elapsed.Seconds())
}

// ObserveFetch records one key set fetch.
func (r *Recorder) ObserveFetch(err error, elapsed time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.fetches.WithLabelValues(status).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}
