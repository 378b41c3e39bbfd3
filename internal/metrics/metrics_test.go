package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(DecodedPackagesTotal.WithLabelValues("mts.can"))
	DecodedPackagesTotal.WithLabelValues("mts.can").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(DecodedPackagesTotal.WithLabelValues("mts.can")))
}

func TestSnapshotFiltersAndSorts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "udex_test_total", Help: "test"}, []string{"format"})
	other := prometheus.NewCounter(prometheus.CounterOpts{Name: "other_total", Help: "test"})
	reg.MustRegister(c, other)

	c.WithLabelValues("mts.eth").Add(3)
	c.WithLabelValues("mts.can").Inc()
	other.Inc()

	samples, err := snapshot(reg)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, `udex_test_total{format="mts.can"}`, samples[0].Name)
	assert.Equal(t, 1.0, samples[0].Value)
	assert.Equal(t, `udex_test_total{format="mts.eth"}`, samples[1].Name)
	assert.Equal(t, 3.0, samples[1].Value)
}

func TestSnapshotDefaultRegistry(t *testing.T) {
	HashCollisionsTotal.Inc()
	samples, err := Snapshot()
	require.NoError(t, err)

	found := false
	for _, s := range samples {
		if s.Name == "udex_hash_collisions_total" {
			found = true
			assert.GreaterOrEqual(t, s.Value, 1.0)
		}
	}
	assert.True(t, found)
}
