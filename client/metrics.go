package client

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"hyperunit-sdk/guardian"
)

const metricsNamespace = "hyperunit"

// Request outcomes recorded on hyperunit_api_requests_total.
const (
	outcomeOK       = "ok"
	outcomeAPIError = "api_error"
	outcomeNetwork  = "network_error"
	outcomeTimeout  = "timeout"
	outcomeInvalid  = "invalid_response"
	outcomeCached   = "cached"
	outcomeCanceled = "canceled"
)

type clientMetrics struct {
	requests         *prometheus.CounterVec
	verifications    *prometheus.CounterVec
	guardianFailures *prometheus.CounterVec
}

func newClientMetrics(registerer prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "api_requests_total",
				Help:      "bridge API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "verifications_total",
				Help:      "guardian signature set verifications by result",
			},
			[]string{"network", "result"},
		),
		guardianFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "guardian_failures_total",
				Help:      "individual guardian signatures that did not verify",
			},
			[]string{"network", "node", "kind"},
		),
	}

	if registerer == nil {
		return m, nil
	}

	var err error
	m.requests, err = register(registerer, m.requests)
	if err != nil {
		return nil, err
	}
	m.verifications, err = register(registerer, m.verifications)
	if err != nil {
		return nil, err
	}
	m.guardianFailures, err = register(registerer, m.guardianFailures)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses an identical collector when several clients share a registerer.
func register(r prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *clientMetrics) observeRequest(endpoint, outcome string) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *clientMetrics) observeVerdict(network guardian.Network, v guardian.Verdict, results []guardian.NodeResult) {
	result := "failure"
	if v.Success {
		result = "success"
	}
	m.verifications.WithLabelValues(network.String(), result).Inc()

	for _, f := range results {
		if f.Passed {
			continue
		}
		// Node ids come from the response; only registered ids become label values.
		node := f.NodeID
		if f.Failure == guardian.FailureUnknownNode {
			node = "unknown"
		}
		m.guardianFailures.WithLabelValues(network.String(), node, f.Failure.String()).Inc()
	}
}
