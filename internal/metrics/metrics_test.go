package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/state"
)

func TestStoreObserver(t *testing.T) {
	m := New()
	store := state.New(state.WithObserver(m))

	store.Dispatch(state.SetSchedule{Schedule: model.Schedule{}})
	store.Dispatch(state.SetSchedule{Schedule: model.Schedule{}})
	_, err := store.DispatchIf(state.SetSchedule{Schedule: model.Schedule{}}, 0)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("SET_SCHEDULE", "schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale.WithLabelValues("schedule")))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("load", "ok", 20*time.Millisecond)
	m.ObserveRequest("load", "superseded", 5*time.Millisecond)
	m.ObserveRequest("load", "ok", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("load", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveStaleWrite(state.SectionProducts)

	path := filepath.Join(t.TempDir(), "rollforward.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rollforward_stale_writes_total{section="products"} 1`)
}
