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

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.UploadHandled(ResultSuccess)
	m.UploadHandled(ResultSuccess)
	m.UploadHandled(ResultRejected)
	m.AnalysisCompleted(120, 40*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(ResultRejected)))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.rowsAnalyzed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.analysisDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.UploadHandled(ResultFailed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dataaudit_uploads_total{result="failed"} 1`)
	assert.Contains(t, string(body), "dataaudit_analysis_duration_seconds_bucket")
}
