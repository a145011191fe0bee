package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var epoch = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func entry(path string, size int64, age time.Duration) types.FileEntry {
	return types.NewFileEntry(path, size, epoch.Add(-age))
}

func paths(files []types.FileEntry) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	f := New(nil)
	assert.Equal(t, types.CategoryVideos, f.Category())
	assert.Equal(t, SortNone, f.SortBy)
	assert.Zero(t, f.Limit)
	assert.Len(t, f.Extensions(), 7)
	assert.NoError(t, f.Validate())
}

func TestMatchExtensions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		ignoreCase bool
		want       bool
	}{
		{name: "mp4", path: "/v/a.mp4", want: true},
		{name: "mov", path: "/v/b.mov", want: true},
		{name: "webm", path: "/v/sub/c.webm", want: true},
		{name: "text", path: "/v/c.txt", want: false},
		{name: "no extension", path: "/v/README", want: false},
		{name: "dotfile", path: "/v/.mp4rc", want: false},
		{name: "extension only in stem", path: "/v/movie.mp4.part", want: false},
		{name: "uppercase is case-sensitive", path: "/v/A.MP4", want: false},
		{name: "uppercase with ignore case", path: "/v/A.MP4", ignoreCase: true, want: true},
		{name: "mixed case with ignore case", path: "/v/clip.WebM", ignoreCase: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(types.DefaultExtensions(), WithIgnoreCase(tt.ignoreCase))
			assert.Equal(t, tt.want, f.Match(entry(tt.path, 1, 0)))
		})
	}
}

func TestCategories(t *testing.T) {
	set := types.NewExtensionSet(map[string][]string{
		"videos": {".mp4"},
		"clips":  {".gif"},
	})

	f := New(set, WithCategory("clips"))
	require.NoError(t, f.Validate())
	assert.True(t, f.Match(entry("/x/a.gif", 1, 0)))
	assert.False(t, f.Match(entry("/x/a.mp4", 1, 0)))

	unknown := New(set, WithCategory("AUDIO"))
	err := unknown.Validate()
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, err.Error(), "CLIPS, VIDEOS")

	all := New(set, WithCategory("AUDIO"), WithAllExtensions())
	assert.NoError(t, all.Validate())
	assert.True(t, all.Match(entry("/x/notes.txt", 1, 0)))
}

func TestPatterns(t *testing.T) {
	files := []types.FileEntry{
		entry("/v/keep/a.mp4", 1, 0),
		entry("/v/trailers/b.mp4", 1, 0),
		entry("/v/keep/sample-c.mov", 1, 0),
	}

	f := New(nil, WithExclude("sample-*", "/v/trailers/**"))
	require.NoError(t, f.Validate())
	assert.Equal(t, []string{"/v/keep/a.mp4"}, paths(f.Apply(files)))

	f = New(nil, WithInclude("*.mov"))
	assert.Equal(t, []string{"/v/keep/sample-c.mov"}, paths(f.Apply(files)))

	bad := New(nil, WithInclude("[oops"))
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPattern)
}

func TestOlderThan(t *testing.T) {
	f := New(nil, WithOlderThan(time.Hour))
	f.now = func() time.Time { return epoch }

	assert.True(t, f.Match(entry("/v/old.mp4", 1, 2*time.Hour)))
	assert.True(t, f.Match(entry("/v/edge.mp4", 1, time.Hour)))
	assert.False(t, f.Match(entry("/v/fresh.mp4", 1, time.Minute)))

	assert.Zero(t, New(nil, WithOlderThan(-time.Hour)).OlderThan)
}

func TestApplySortLimit(t *testing.T) {
	files := []types.FileEntry{
		entry("/v/b.mp4", 300, 3*time.Hour),
		entry("/v/a.mov", 100, 1*time.Hour),
		entry("/v/c.avi", 200, 2*time.Hour),
		entry("/v/notes.txt", 999, 0),
	}

	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{
			name: "enumeration order",
			want: []string{"/v/b.mp4", "/v/a.mov", "/v/c.avi"},
		},
		{
			name: "size descending",
			opts: []Option{WithSortBy(SortSize), WithSortDescending(true)},
			want: []string{"/v/b.mp4", "/v/c.avi", "/v/a.mov"},
		},
		{
			name: "name ascending",
			opts: []Option{WithSortBy(SortName)},
			want: []string{"/v/a.mov", "/v/b.mp4", "/v/c.avi"},
		},
		{
			name: "age oldest first",
			opts: []Option{WithSortBy(SortAge)},
			want: []string{"/v/b.mp4", "/v/c.avi", "/v/a.mov"},
		},
		{
			name: "limited",
			opts: []Option{WithSortBy(SortSize), WithLimit(2)},
			want: []string{"/v/a.mov", "/v/c.avi"},
		},
		{
			name: "negative limit is unlimited",
			opts: []Option{WithLimit(-1)},
			want: []string{"/v/b.mp4", "/v/a.mov", "/v/c.avi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(nil, tt.opts...)
			assert.Equal(t, tt.want, paths(f.Apply(files)))
		})
	}

	// Input untouched.
	assert.Equal(t, "/v/b.mp4", files[0].Path)
}

func TestApplyEmpty(t *testing.T) {
	got := New(nil).Apply(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortField(t *testing.T) {
	for in, want := range map[string]SortField{
		"":     SortNone,
		"size": SortSize,
		"NAME": SortName,
		"path": SortPath,
		"age":  SortAge,
		"none": SortNone,
	} {
		got, err := ParseSortField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortField("colour")
	assert.ErrorIs(t, err, ErrInvalidSortField)
	assert.Equal(t, "size", SortSize.String())
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "2d", want: 48 * time.Hour},
		{input: "1w", want: 7 * 24 * time.Hour},
		{input: "1.5d", want: 36 * time.Hour},
		{input: "90s", want: 90 * time.Second},
		{input: "10m", want: 10 * time.Minute},
		{input: "", wantErr: true},
		{input: "-1d", wantErr: true},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAge(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
