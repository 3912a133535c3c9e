package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLookup(t *testing.T) {
	before := testutil.ToFloat64(MetadataLookups.WithLabelValues("title", "found"))

	RecordLookup("title", "found", 120*time.Millisecond)

	after := testutil.ToFloat64(MetadataLookups.WithLabelValues("title", "found"))
	assert.InDelta(t, before+1, after, 0.0001)
}

func TestRecordSearch(t *testing.T) {
	hits := testutil.ToFloat64(Searches.WithLabelValues("hit"))
	misses := testutil.ToFloat64(Searches.WithLabelValues("miss"))

	RecordSearch(2)
	RecordSearch(0)

	assert.InDelta(t, hits+1, testutil.ToFloat64(Searches.WithLabelValues("hit")), 0.0001)
	assert.InDelta(t, misses+1, testutil.ToFloat64(Searches.WithLabelValues("miss")), 0.0001)
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("omdb-test", "closed", "open", 2)
	assert.InDelta(t, 2, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("omdb-test")), 0.0001)
}

func TestHandler_ServesRegistry(t *testing.T) {
	RecordRecommendation("success", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "popcornpicks_recommendations_total")
}
