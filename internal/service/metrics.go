package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/psds-microservice/ticket-reply-service/internal/errs"
)

// Исходы пересылки ответа в workflow (значения label outcome).
const (
	OutcomeOK              = "ok"
	OutcomeDownstreamError = "downstream_error"
	OutcomeNotConfigured   = "not_configured"
	OutcomeError           = "error"
)

// Metrics — доменные счётчики шлюза.
type Metrics struct {
	ForwardTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ForwardTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "reply_forward_total", Help: "Reply forward attempts by outcome."},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.ForwardTotal)
	return m
}

func (m *Metrics) observeForward(err error) {
	if m == nil {
		return
	}
	m.ForwardTotal.WithLabelValues(forwardOutcome(err)).Inc()
}

func forwardOutcome(err error) string {
	var de *errs.DownstreamError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, errs.ErrWorkflowNotConfigured):
		return OutcomeNotConfigured
	case errors.As(err, &de):
		return OutcomeDownstreamError
	default:
		return OutcomeError
	}
}
