package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordServiceCall_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("parkvision-test", reg)
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordServiceCall(ctx, "book", "success", 120*time.Millisecond)
	o.RecordServiceCall(ctx, "book", "BOOKING_FAILED", 80*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	calls, ok := byName["parking_service_calls_total"]
	require.True(t, ok, "exported families: %v", familyNames(families))
	assert.Len(t, calls.GetMetric(), 2)

	latency, ok := byName["parking_service_duration_milliseconds"]
	require.True(t, ok, "exported families: %v", familyNames(families))
	require.Len(t, latency.GetMetric(), 2)
	for _, m := range latency.GetMetric() {
		assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	}
}

func familyNames(families []*dto.MetricFamily) string {
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return strings.Join(names, ",")
}

func TestRecordServiceCall_NilSafe(t *testing.T) {
	var o *Observability
	assert.NotPanics(t, func() {
		o.RecordServiceCall(context.Background(), "unbook", "success", time.Second)
		o.Shutdown()
	})

	empty := &Observability{}
	assert.NotPanics(t, func() {
		empty.RecordServiceCall(context.Background(), "unbook", "success", time.Second)
		empty.Shutdown()
	})
}
