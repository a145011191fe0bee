package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// createTree lays out:
//
//	root/a.mp4        (2000 B)
//	root/c.txt        (10 B)
//	root/sub/b.mov    (1500 B)
//	root/sub/deep/d.webm (5 B)
//	root/small_files/old.mp4 (1 B)
func createTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]int64{
		"a.mp4":               2000,
		"c.txt":               10,
		"sub/b.mov":           1500,
		"sub/deep/d.webm":     5,
		"small_files/old.mp4": 1,
	}
	for rel, size := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	return root
}

func names(result *types.ScanResult, root string) []string {
	out := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		rel, _ := filepath.Rel(root, f.Path)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ".", opts.Root)
	assert.True(t, opts.Recursive)
	assert.Equal(t, 4, opts.Workers)
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{Workers: -3}
	require.NoError(t, opts.Validate())
	assert.Equal(t, ".", opts.Root)
	assert.Equal(t, 4, opts.Workers)

	bad := Options{Root: ".", Exclude: []string{"[unclosed"}}
	assert.Error(t, bad.Validate())
}

func TestScanRecursive(t *testing.T) {
	root := createTree(t)

	result, err := New(Options{Root: root, Recursive: true}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.mp4", "c.txt", "small_files/old.mp4", "sub/b.mov", "sub/deep/d.webm"}, names(result, root))
	assert.Equal(t, int64(5), result.FilesScanned)
	assert.Equal(t, int64(2000+10+1500+5+1), result.TotalSize)
	// root, sub, sub/deep, small_files, empty
	assert.Equal(t, int64(5), result.DirsScanned)
	assert.Equal(t, root, result.Root)

	for _, f := range result.Files {
		info, err := os.Stat(f.Path)
		require.NoError(t, err)
		assert.False(t, info.IsDir(), "directory returned: %s", f.Path)
		assert.Equal(t, info.Size(), f.Size)
	}
}

func TestScanFlat(t *testing.T) {
	root := createTree(t)

	result, err := New(Options{Root: root, Recursive: false}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.mp4", "c.txt"}, names(result, root))
	assert.Equal(t, int64(1), result.DirsScanned)
}

func TestScanExclusions(t *testing.T) {
	root := createTree(t)

	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{
			name:    "absolute prefix",
			exclude: []string{filepath.Join(root, "small_files")},
			want:    []string{"a.mp4", "c.txt", "sub/b.mov", "sub/deep/d.webm"},
		},
		{
			name:    "base name glob",
			exclude: []string{"*.txt"},
			want:    []string{"a.mp4", "small_files/old.mp4", "sub/b.mov", "sub/deep/d.webm"},
		},
		{
			name:    "directory name",
			exclude: []string{"sub"},
			want:    []string{"a.mp4", "c.txt", "small_files/old.mp4"},
		},
		{
			name:    "nested directory name",
			exclude: []string{"deep"},
			want:    []string{"a.mp4", "c.txt", "small_files/old.mp4", "sub/b.mov"},
		},
		{
			name:    "file name",
			exclude: []string{"c.txt"},
			want:    []string{"a.mp4", "small_files/old.mp4", "sub/b.mov", "sub/deep/d.webm"},
		},
		{
			name:    "prefix does not match sibling with same stem",
			exclude: []string{filepath.Join(root, "su")},
			want:    []string{"a.mp4", "c.txt", "small_files/old.mp4", "sub/b.mov", "sub/deep/d.webm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(Options{Root: root, Recursive: true, Exclude: tt.exclude}).Scan(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(result, root))
		})
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := createTree(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "a.mp4"), filepath.Join(root, "link.mp4")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "sub", "loop")))

	result, err := New(Options{Root: root, Recursive: true}).Scan(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, names(result, root), "link.mp4")
	assert.Len(t, result.Files, 5)
}

func TestScanEmptyDirectory(t *testing.T) {
	result, err := New(Options{Root: t.TempDir(), Recursive: true}).Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.Files)
	assert.Empty(t, result.Files)
}

func TestScanRootErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := New(Options{Root: filepath.Join(t.TempDir(), "nope")}).Scan(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrRootNotFound)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.mp4")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := New(Options{Root: path}).Scan(context.Background())
		assert.ErrorIs(t, err, types.ErrNotDirectory)
	})
}

func TestScanUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := createTree(t)
	locked := filepath.Join(root, "sub")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := New(Options{Root: root, Recursive: true}).Scan(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)

	var scanErr *types.ScanError
	assert.True(t, errors.As(err, &scanErr))
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestScanContextCancellation(t *testing.T) {
	root := createTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{Root: root, Recursive: true}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanFunc(t *testing.T) {
	root := createTree(t)
	result, err := Scan(context.Background(), Options{Root: root, Recursive: false, Workers: 1})
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
}

func TestExclusionMatches(t *testing.T) {
	excl := compileExclusions([]string{"/data/small_files", "*.part", ""})
	require.Len(t, excl, 2)

	assert.True(t, excl[0].matches("/data/small_files"))
	assert.True(t, excl[0].matches("/data/small_files/a.mp4"))
	assert.False(t, excl[0].matches("/data/small_files_old/a.mp4"))
	assert.True(t, excl[1].matches("/data/movie.part"))
	assert.False(t, excl[1].matches("/data/movie.mp4"))
}
