package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "sekolahku"

// Metrics holds the platform core's metric instruments.
type Metrics struct {
	LoginsSucceeded metric.Int64Counter
	LoginsFailed    metric.Int64Counter
	GuardAdmitted   metric.Int64Counter
	GuardRedirected metric.Int64Counter
	Resolutions     metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.LoginsSucceeded, err = meter.Int64Counter("sekolahku.logins.succeeded",
		metric.WithDescription("Number of successful logins"))
	if err != nil {
		return nil, err
	}

	m.LoginsFailed, err = meter.Int64Counter("sekolahku.logins.failed",
		metric.WithDescription("Number of failed logins"))
	if err != nil {
		return nil, err
	}

	m.GuardAdmitted, err = meter.Int64Counter("sekolahku.guard.admitted",
		metric.WithDescription("Number of admissions into protected areas"))
	if err != nil {
		return nil, err
	}

	m.GuardRedirected, err = meter.Int64Counter("sekolahku.guard.redirected",
		metric.WithDescription("Number of guard redirects"))
	if err != nil {
		return nil, err
	}

	m.Resolutions, err = meter.Int64Counter("sekolahku.tenancy.resolutions",
		metric.WithDescription("Number of tenant resolutions"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
