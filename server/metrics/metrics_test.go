package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/metrics"
)

var _ app.Observer = (*metrics.Observer)(nil)

func TestObserverExposition(t *testing.T) {
	obs := metrics.NewObserver()

	obs.ScanStarted()
	obs.ScanCompleted(3 * time.Second)
	obs.DeletedSingle()
	obs.DeletedBulk(100)
	obs.AlreadyGone()
	obs.BulkFallback()
	obs.ChannelPruned()
	obs.PacingDelay(2.0)

	rec := httptest.NewRecorder()
	obs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "autodelete_scan_cycles_total 1")
	assert.Contains(t, body, "autodelete_deleted_single_total 1")
	assert.Contains(t, body, "autodelete_deleted_bulk_total 100")
	assert.Contains(t, body, "autodelete_already_gone_total 1")
	assert.Contains(t, body, "autodelete_bulk_fallbacks_total 1")
	assert.Contains(t, body, "autodelete_channels_pruned_total 1")
	assert.Contains(t, body, "autodelete_pacing_delay_seconds 2")
}
