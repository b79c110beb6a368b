// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := noopMetrics{}
	assert.Nil(t, m.GetOrCreateHandler())

	// must not panic
	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateGaugeMeter("g").Set(1)
	m.GetOrCreateHistogramMeter("h", nil).Observe(1)
	m.GetOrCreateCountVecMeter("v", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
}

func TestPrometheusMetrics(t *testing.T) {
	prev := metrics
	defer func() { metrics = prev }()

	assert.False(t, Enabled())
	lazy := LazyLoadCounter("lazy_count")

	InitializePrometheusMetrics()
	assert.True(t, Enabled())

	Counter("count1").Add(2)
	assert.Same(t, Counter("count1"), Counter("count1"))
	lazy().Add(1)
	CounterVec("dispatch_count", []string{"service"}).AddWithLabel(3, map[string]string{"service": "kyc"})
	Gauge("gauge1").Set(7)
	Histogram("hist1", Bucket10s).Observe(42)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.Nil(t, err)

	text := string(body)
	assert.Contains(t, text, "huobi_count1 2")
	assert.Contains(t, text, "huobi_lazy_count 1")
	assert.Contains(t, text, `huobi_dispatch_count{service="kyc"} 3`)
	assert.Contains(t, text, "huobi_gauge1 7")
	assert.Contains(t, text, "huobi_hist1_count 1")
}
