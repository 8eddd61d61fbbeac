package codegen

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMetric(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return &out
}

func TestBuildMetrics(t *testing.T) {
	assert := assert.New(t)

	builds := readMetric(t, buildDuration).GetHistogram().GetSampleCount()
	skipped := readMetric(t, schemasSkipped).GetCounter().GetValue()

	g := NewGenerator(Options{Policy: SkipInvalid}, nil)
	_, err := g.Build(context.Background(), loadMixed(t))
	require.NoError(t, err)

	assert.Equal(builds+1, readMetric(t, buildDuration).GetHistogram().GetSampleCount())
	assert.Equal(skipped+1, readMetric(t, schemasSkipped).GetCounter().GetValue())
}
