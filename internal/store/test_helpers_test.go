package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/rollforward/internal/state"
	"github.com/roach88/rollforward/internal/testutil"
	"github.com/roach88/rollforward/internal/wire"
)

// createTestStore opens a fresh database under t.TempDir with sequential ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	n := 0
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithLogger(testutil.DiscardLogger()),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("model-%d", n) }),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sampleSnapshot builds a consolidated sample model.
func sampleSnapshot(t *testing.T) wire.Snapshot {
	t.Helper()
	st := state.Empty()
	meta := testutil.SampleMetadata()
	st.Metadata = &meta
	st.Products = testutil.SampleProducts()
	st.Schedule = testutil.SampleSchedule()
	st.UnitYields = testutil.SampleUnitYields()
	st.ProductFormulation = testutil.SampleFormulation()
	snap, err := wire.Consolidate(st)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}
	return snap
}
