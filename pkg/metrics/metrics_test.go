package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodGet, "/api/cart", http.StatusOK, 120*time.Millisecond)
	m.Observe(http.MethodGet, "/api/cart", http.StatusOK, 80*time.Millisecond)
	m.Observe(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "storefront_http_requests_total", map[string]string{"route": "/api/cart", "status": "200"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "storefront_http_requests_total", map[string]string{"route": "unknown", "status": "404"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	sum, err := fetchHistogramSum(mfs, "storefront_http_request_duration_seconds", map[string]string{"route": "/api/cart"})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, sum, 0.001)
}

func TestOutboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.IncPublished("order_status_changed")
	m.IncFailed("order_status_changed")
	m.IncFailed("order_status_changed")
	m.SetBatchSize(7)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "storefront_outbox_published_total", map[string]string{"event_type": "order_status_changed"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "storefront_outbox_publish_failures_total", map[string]string{"event_type": "order_status_changed"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	mf := findMetricFamily(mfs, "storefront_outbox_last_batch_size")
	require.NotNil(t, mf)
	assert.Equal(t, float64(7), mf.GetMetric()[0].GetGauge().GetValue())
}

func TestNilRegistererIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Second)
		var m *OutboxMetrics
		m.IncPublished("x")
		NewOutboxMetrics(nil).SetBatchSize(3)
	})
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
