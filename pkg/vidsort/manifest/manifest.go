package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var (
	// ErrNotFound is returned by Get when no entry matches.
	ErrNotFound = errors.New("history entry not found")

	// ErrAmbiguous is returned by Get when a prefix matches several entries.
	ErrAmbiguous = errors.New("history entry prefix is ambiguous")
)

// Manifest stores one JSON file per entry in a directory.
type Manifest struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Manifest rooted at dir. The directory is created on first write.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir, now: time.Now}, nil
}

// Dir returns the manifest directory.
func (m *Manifest) Dir() string {
	return m.dir
}

// LogPass records a move pass over root. passErr, if non-nil, is stored
// alongside the files that were moved before the failure.
func (m *Manifest) LogPass(root string, pass *types.PassResult, unit types.Unit, passErr error) (*Entry, error) {
	files := make([]FileRecord, 0, len(pass.Moved))
	for _, mv := range pass.Moved {
		files = append(files, FileRecord{Source: mv.Source, Dest: mv.Dest, Size: mv.Size})
	}

	entry := m.newEntry(OperationFor(pass.Bucket), root, files)
	entry.Summary.Threshold = pass.Threshold
	entry.Summary.Unit = unit.String()
	entry.Summary.Kept = len(pass.Kept)
	entry.Summary.Vanished = len(pass.Vanished)
	if passErr != nil {
		entry.Error = passErr.Error()
	}

	return entry, m.write(entry)
}

// LogClean records a cleanup under base.
func (m *Manifest) LogClean(base string, res *types.CleanupResult) (*Entry, error) {
	var files []FileRecord
	for _, dir := range res.Removed {
		files = append(files, FileRecord{Source: dir})
	}
	for _, dir := range res.Trashed {
		files = append(files, FileRecord{Source: dir, Dest: "trash"})
	}

	entry := m.newEntry(OpClean, base, files)
	return entry, m.write(entry)
}

func (m *Manifest) newEntry(op OperationType, root string, files []FileRecord) *Entry {
	if files == nil {
		files = []FileRecord{}
	}
	var total int64
	for _, f := range files {
		total += f.Size
	}

	now := m.now().UTC()
	return &Entry{
		ID:        generateID(op, now),
		Timestamp: now,
		Operation: op,
		Root:      root,
		Files:     files,
		Summary: Summary{
			TotalFiles: int64(len(files)),
			TotalBytes: total,
		},
	}
}

// write stores entry atomically via a temp file and rename.
func (m *Manifest) write(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	path := filepath.Join(m.dir, entry.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing manifest entry: %w", err)
	}
	return nil
}

// List returns entries newest first. limit <= 0 returns all of them.
// Unreadable files are skipped.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get returns the entry with the given ID, or the single entry whose ID
// starts with it.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	var match *Entry
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Cleanup removes entries recorded more than retentionDays ago and returns
// how many were removed. retentionDays <= 0 removes nothing.
func (m *Manifest) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if !entry.Timestamp.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, entry.ID+".json")); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (m *Manifest) readAll() ([]Entry, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, f.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.ID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// generateID returns e.g. "move-small-2026-10-17T10-30-00-1f3a9c2b".
func generateID(op OperationType, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", op, at.Format("2006-01-02T15-04-05"), uuid.NewString()[:8])
}
