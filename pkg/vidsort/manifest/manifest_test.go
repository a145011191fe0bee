package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

func newManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	return m
}

func pass() *types.PassResult {
	return &types.PassResult{
		Bucket:    types.Small,
		Threshold: 100_000_000,
		Moved: []types.Move{
			{Source: "/v/a.mp4", Dest: "/w/small_files/a.mp4", Size: 2_000_000},
			{Source: "/v/d.webm", Dest: "/w/small_files/d.webm", Size: 1_000},
		},
		Kept:     []string{"/v/b.mov"},
		Vanished: []string{"/v/gone.mp4"},
	}
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestLogPass(t *testing.T) {
	m := newManifest(t)

	entry, err := m.LogPass("/v", pass(), types.Decimal, nil)
	require.NoError(t, err)

	assert.Equal(t, OpMoveSmall, entry.Operation)
	assert.Regexp(t, regexp.MustCompile(`^move-small-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-[0-9a-f]{8}$`), entry.ID)
	assert.Equal(t, int64(2), entry.Summary.TotalFiles)
	assert.Equal(t, int64(2_001_000), entry.Summary.TotalBytes)
	assert.Equal(t, 1, entry.Summary.Kept)
	assert.Equal(t, 1, entry.Summary.Vanished)
	assert.Equal(t, "decimal", entry.Summary.Unit)
	assert.Empty(t, entry.Error)

	assert.FileExists(t, filepath.Join(m.Dir(), entry.ID+".json"))
	matches, _ := filepath.Glob(filepath.Join(m.Dir(), "*.tmp"))
	assert.Empty(t, matches)
}

func TestLogPassWithError(t *testing.T) {
	m := newManifest(t)
	p := pass()
	p.Bucket = types.Large

	entry, err := m.LogPass("/v", p, types.Binary, errors.New("rename /v/x: permission denied"))
	require.NoError(t, err)
	assert.Equal(t, OpMoveLarge, entry.Operation)
	assert.Contains(t, entry.Error, "permission denied")

	got, err := m.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Error, got.Error)
	assert.Len(t, got.Files, 2)
}

func TestLogClean(t *testing.T) {
	m := newManifest(t)
	entry, err := m.LogClean("/w", &types.CleanupResult{
		Removed: []string{"/w/large_files"},
		Trashed: []string{"/w/small_files"},
	})
	require.NoError(t, err)
	assert.Equal(t, OpClean, entry.Operation)
	require.Len(t, entry.Files, 2)
	assert.Equal(t, "trash", entry.Files[1].Dest)

	empty, err := m.LogClean("/w", &types.CleanupResult{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Files)
}

func TestListAndGet(t *testing.T) {
	m := newManifest(t)
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		m.now = func() time.Time { return at }
		e, err := m.LogPass("/v", pass(), types.Decimal, nil)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	// Junk files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "junk.json"), []byte("{"), 0o644))

	all, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	limited, err := m.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := m.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], got.ID)

	byPrefix, err := m.Get(ids[0][:len("move-small-2026-10-01T08")])
	require.NoError(t, err)
	assert.Equal(t, ids[0], byPrefix.ID)

	_, err = m.Get("move-small-2026")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = m.Get("clean-")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get("")
	assert.Error(t, err)
}

func TestListMissingDir(t *testing.T) {
	m := newManifest(t)
	entries, err := m.List(10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestCleanup(t *testing.T) {
	m := newManifest(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return now.AddDate(0, 0, -40) }
	_, err := m.LogPass("/v", pass(), types.Decimal, nil)
	require.NoError(t, err)

	m.now = func() time.Time { return now.AddDate(0, 0, -1) }
	recent, err := m.LogPass("/v", pass(), types.Decimal, nil)
	require.NoError(t, err)

	m.now = func() time.Time { return now }

	removed, err := m.Cleanup(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = m.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recent.ID, entries[0].ID)
}
