package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestIncRequest_StatusLabels(t *testing.T) {
	before := value(t, TSSRequestsTotal.WithLabelValues("token", "POST", "401"))
	IncRequest("token", "POST", 401)
	assert.Equal(t, before+1, value(t, TSSRequestsTotal.WithLabelValues("token", "POST", "401")))

	beforeErr := value(t, TSSRequestsTotal.WithLabelValues("secrets", "GET", "error"))
	IncRequest("secrets", "GET", 0)
	assert.Equal(t, beforeErr+1, value(t, TSSRequestsTotal.WithLabelValues("secrets", "GET", "error")))
}

func TestIncSecretFetch(t *testing.T) {
	before := value(t, SecretFetchesTotal.WithLabelValues("invalid"))
	IncSecretFetch("invalid")
	assert.Equal(t, before+1, value(t, SecretFetchesTotal.WithLabelValues("invalid")))
}

func TestObserveDuration_IgnoresUnknownTypes(t *testing.T) {
	assert.NotPanics(t, func() {
		ObserveDuration("not a metric", time.Now(), "x")
		ObserveDuration(TSSRequestDuration, time.Now(), "secrets", "GET")
	})
}
