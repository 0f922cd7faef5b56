// Package fs persists the metadata cache and session content to the
// output directory tree.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mslomka/wwdc"
)

// Ensure Store implements wwdc.CacheStore at compile time.
var _ wwdc.CacheStore = (*Store)(nil)

// Store reads and writes the per-year metadata.json and keeps it
// consistent with the content tree. The cache is authoritative: on
// every load the store reconciles against the filesystem, dropping
// cache entries whose content.md vanished and removing content
// directories the cache does not know about.
type Store struct {
	root string
	year int
}

// NewStore creates a store for one year under the output root.
func NewStore(root string, year int) *Store {
	return &Store{root: root, year: year}
}

// Path returns the metadata.json location.
func (s *Store) Path() string {
	return filepath.Join(s.root, strconv.Itoa(s.year), "metadata.json")
}

// Load reads the cache. A missing file yields an empty cache; a corrupt
// file yields an empty cache plus an ECACHE warning. Load never fails
// the process over cache state.
func (s *Store) Load(ctx context.Context) (*wwdc.Cache, []error, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return wwdc.NewCache(), nil, nil
	}
	if err != nil {
		warning := wwdc.Errorf(wwdc.ECACHE, "cannot read %s, starting empty: %v", s.Path(), err)
		return wwdc.NewCache(), []error{warning}, nil
	}

	var snap wwdc.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		warning := wwdc.Errorf(wwdc.ECACHE, "corrupt cache %s, starting empty: %v", s.Path(), err)
		return wwdc.NewCache(), []error{warning}, nil
	}

	cache := wwdc.NewCacheFromSnapshot(snap)
	warnings := s.reconcile(ctx, cache)
	return cache, warnings, nil
}

// Save atomically persists the cache: the snapshot is written to a
// uniquely named temp file and renamed over metadata.json, so a crash
// mid-write can never corrupt the persisted cache.
func (s *Store) Save(ctx context.Context, cache *wwdc.Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache.Snapshot(), "", "  ")
	if err != nil {
		return wwdc.Errorf(wwdc.EINTERNAL, "marshal cache: %v", err)
	}
	data = append(data, '\n')

	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return wwdc.Errorf(wwdc.EFS, "create %s: %v", filepath.Dir(path), err)
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return wwdc.Errorf(wwdc.EFS, "write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return wwdc.Errorf(wwdc.EFS, "rename %s: %v", path, err)
	}
	return nil
}

// reconcile enforces cache/filesystem consistency in both directions:
// cache entries without a content.md are dropped, and session
// directories unknown to the cache are removed. Filesystem state alone
// is never trusted.
func (s *Store) reconcile(ctx context.Context, cache *wwdc.Cache) []error {
	var warnings []error

	known := make(map[string]bool)
	for _, sess := range cache.Sessions() {
		if ctx.Err() != nil {
			return warnings
		}
		rel := sess.Path
		if rel == "" {
			rel = wwdc.SessionPath(sess.Year, sess.Topic, sess.ID, sess.Title)
		}
		if _, err := os.Stat(filepath.Join(s.root, rel, "content.md")); err != nil {
			cache.Remove(sess.ID)
			warnings = append(warnings, wwdc.Errorf(wwdc.ECACHE,
				"session %s cached but content missing, will re-download", sess.ID))
			continue
		}
		known[sess.ID] = true
	}

	yearDir := filepath.Join(s.root, strconv.Itoa(s.year))
	topicDirs, err := os.ReadDir(yearDir)
	if err != nil {
		return warnings
	}
	for _, topicDir := range topicDirs {
		if !topicDir.IsDir() {
			continue
		}
		sessionDirs, err := os.ReadDir(filepath.Join(yearDir, topicDir.Name()))
		if err != nil {
			continue
		}
		for _, sessionDir := range sessionDirs {
			if !sessionDir.IsDir() {
				continue
			}
			id, _, _ := strings.Cut(sessionDir.Name(), "-")
			if known[id] {
				continue
			}
			orphan := filepath.Join(yearDir, topicDir.Name(), sessionDir.Name())
			if err := os.RemoveAll(orphan); err != nil {
				warnings = append(warnings, wwdc.Errorf(wwdc.EFS, "remove orphan %s: %v", orphan, err))
				continue
			}
			warnings = append(warnings, wwdc.Errorf(wwdc.ECACHE,
				"removed orphan content %s not present in cache", orphan))
		}
	}

	return warnings
}
