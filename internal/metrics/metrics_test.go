package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnPrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.LikesTotal.WithLabelValues("created").Inc()
	m.LikesTotal.WithLabelValues("created").Inc()
	m.MatchesCreated.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LikesTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesCreated))

	// a second set on the same registry collides
	assert.Panics(t, func() { New(reg) })
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.NotificationsTotal.WithLabelValues("sent").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `matchmaker_notifications_total{outcome="sent"} 1`)
}

func TestNewNop_IsIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
