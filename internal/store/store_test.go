package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/testutil"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"models", "revisions"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct{ name, want string }{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		if err := s.verifyPragma(tt.name, tt.want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_MigratesVersionZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("DROP INDEX idx_revisions_content_hash")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 0")
	require.NoError(t, err)
	s.Close()

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_revisions_content_hash'").Scan(&name)
	assert.NoError(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	id, err := s.Save(ctx, "", snap)
	require.NoError(t, err)
	assert.Equal(t, "model-1", id)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestSaveIdenticalContentIsNoop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	_, err := s.Save(ctx, "plan", snap)
	require.NoError(t, err)
	_, err = s.Save(ctx, "plan", snap)
	require.NoError(t, err)

	revs, err := s.Revisions(ctx, "plan")
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	snap.ModelMetaData.RunDays = 10
	_, err = s.Save(ctx, "plan", snap)
	require.NoError(t, err)

	revs, err = s.Revisions(ctx, "plan")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, int64(2), revs[1].Number)
	assert.NotEqual(t, revs[0].Hash, revs[1].Hash)

	latest, err := s.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, int64(10), latest.ModelMetaData.RunDays)

	first, err := s.LoadRevision(ctx, "plan", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.ModelMetaData.RunDays)
}

func TestSaveDropsResult(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)
	snap.Result = testutil.SampleResult()

	id, err := s.Save(ctx, "", snap)
	require.NoError(t, err)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.HasResult())
}

func TestLoadUnknown(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.LoadRevision(ctx, "nope", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Revisions(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	snap := sampleSnapshot(t)
	_, err = s.Save(ctx, "b", snap)
	require.NoError(t, err)
	snap.ModelMetaData.Description = "other"
	_, err = s.Save(ctx, "a", snap)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "other", list[0].Description)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "sample model", list[1].Description)
	assert.Equal(t, int64(45000), list[1].StartDate)
	assert.Equal(t, int64(1), list[1].Revisions)
}

func TestFindByHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	_, err := s.Save(ctx, "x", snap)
	require.NoError(t, err)
	_, err = s.Save(ctx, "y", snap)
	require.NoError(t, err)

	hash, err := snap.Hash()
	require.NoError(t, err)
	ids, err := s.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)
}

func TestRunUnsupported(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Run(context.Background(), sampleSnapshot(t))
	assert.ErrorIs(t, err, ErrRunUnsupported)
}
