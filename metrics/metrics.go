package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "currency_import"

type (
	// Recorder receives fetcher events.
	Recorder interface {
		MissingAPIKey(base string)
		RequestAttempt(base string)
		RequestFailed(base string)
		ProviderError(base string, code int)
		MissingRate(base, target string)
	}

	Nop struct{}

	Prometheus struct {
		MissingAPIKeyTotal   *prometheus.CounterVec
		RequestsTotal        *prometheus.CounterVec
		RequestFailuresTotal *prometheus.CounterVec
		ProviderErrorsTotal  *prometheus.CounterVec
		MissingRatesTotal    *prometheus.CounterVec
	}
)

func (Nop) MissingAPIKey(string) {}
func (Nop) RequestAttempt(string) {}
func (Nop) RequestFailed(string) {}
func (Nop) ProviderError(string, int) {}
func (Nop) MissingRate(string, string) {}

// NewPrometheus registers the fetcher counters on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		MissingAPIKeyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "missing_api_key_total",
				Help:      "Base currencies skipped because no API key is configured",
			},
			[]string{"base"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Requests sent to the rate provider, retries included",
			},
			[]string{"base"},
		),
		RequestFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "request_failures_total",
				Help:      "Base currencies whose request failed after the retry",
			},
			[]string{"base"},
		),
		ProviderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "provider_errors_total",
				Help:      "Responses rejected by the rate provider, by error code",
			},
			[]string{"base", "code"},
		),
		MissingRatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "missing_rates_total",
				Help:      "Currency pairs absent from a successful response",
			},
			[]string{"base", "target"},
		),
	}
}

func (p *Prometheus) MissingAPIKey(base string) {
	p.MissingAPIKeyTotal.WithLabelValues(base).Inc()
}

func (p *Prometheus) RequestAttempt(base string) {
	p.RequestsTotal.WithLabelValues(base).Inc()
}

func (p *Prometheus) RequestFailed(base string) {
	p.RequestFailuresTotal.WithLabelValues(base).Inc()
}

func (p *Prometheus) ProviderError(base string, code int) {
	p.ProviderErrorsTotal.WithLabelValues(base, strconv.Itoa(code)).Inc()
}

func (p *Prometheus) MissingRate(base, target string) {
	p.MissingRatesTotal.WithLabelValues(base, target).Inc()
}
