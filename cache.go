package wwdc

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Cache is the single source of truth for what has already been
// downloaded. It holds session metadata and the topic→sessions map for
// one year. All mutations are serialized through an internal lock so
// many fetch pipelines can report results concurrently; reads return
// copies and never expose internal state.
//
// Persistence (load/save/reconcile) is the job of a CacheStore.
type Cache struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	topics   TopicMap
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		sessions: make(map[string]*Session),
		topics:   make(TopicMap),
	}
}

// NewCacheFromSnapshot builds a cache from previously persisted state.
func NewCacheFromSnapshot(snap Snapshot) *Cache {
	c := NewCache()
	for id, s := range snap.Sessions {
		s := s
		if s.ID == "" {
			s.ID = id
		}
		c.sessions[s.ID] = &s
	}
	for slug, ids := range snap.Topics {
		c.topics[slug] = append([]string(nil), ids...)
	}
	return c
}

// Snapshot is the serializable form of a Cache. It matches the
// metadata.json layout consumed by downstream tools.
type Snapshot struct {
	Sessions map[string]Session `json:"sessions"`
	Topics   TopicMap           `json:"topics"`
}

// Session returns a copy of the cached metadata for id.
func (c *Cache) Session(id string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	if !ok {
		return Session{}, false
	}
	return copySession(s), true
}

// Sessions returns copies of all cached sessions, ordered by id.
func (c *Cache) Sessions() []Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, copySession(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of cached sessions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Upsert merges a partial session into the cache. Zero-valued fields of
// the update retain their prior values, so a pipeline step that only
// learned the title does not wipe out chapters recorded earlier. The
// entry's LastUpdated timestamp is refreshed.
func (c *Cache) Upsert(partial Session) error {
	if err := partial.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.sessions[partial.ID]
	if !ok {
		s := copySession(&partial)
		s.LastUpdated = time.Now().UTC()
		c.sessions[partial.ID] = &s
		return nil
	}

	cur.Year = partial.Year
	if partial.Title != "" {
		cur.Title = partial.Title
	}
	if partial.Topic != "" {
		cur.Topic = partial.Topic
	}
	if partial.Description != "" {
		cur.Description = partial.Description
	}
	if partial.Chapters != nil {
		cur.Chapters = append([]Chapter(nil), partial.Chapters...)
	}
	if partial.Resources != nil {
		cur.Resources = append([]Resource(nil), partial.Resources...)
	}
	if !partial.Video.IsZero() {
		cur.Video = partial.Video
	}
	if partial.ContentHash != "" {
		cur.ContentHash = partial.ContentHash
	}
	if partial.Path != "" {
		cur.Path = partial.Path
	}
	cur.LastUpdated = time.Now().UTC()
	return nil
}

// Remove deletes a session and its topic-map references. Used by
// reconciliation when a cache entry has no matching content on disk.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	for slug, ids := range c.topics {
		for i, sid := range ids {
			if sid == id {
				c.topics[slug] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
	}
}

// MergeTopics merges a freshly built topic map into the cache. Existing
// topic entries are preserved; only topics absent from the cache are
// added, so a partial rebuild never clobbers known-good mappings.
func (c *Cache) MergeTopics(m TopicMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for slug, ids := range m {
		if _, ok := c.topics[slug]; ok {
			continue
		}
		c.topics[slug] = append([]string(nil), ids...)
	}
}

// ReplaceTopics overwrites the topic map. Used by forced rebuilds.
func (c *Cache) ReplaceTopics(m TopicMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = make(TopicMap, len(m))
	for slug, ids := range m {
		c.topics[slug] = append([]string(nil), ids...)
	}
}

// Topics returns a copy of the topic map.
func (c *Cache) Topics() TopicMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(TopicMap, len(c.topics))
	for slug, ids := range c.topics {
		out[slug] = append([]string(nil), ids...)
	}
	return out
}

// TopicSessions returns the ordered session ids for a topic slug.
func (c *Cache) TopicSessions(slug string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.topics[slug]...)
}

// HasTopics reports whether a topic map is present at all. An empty map
// means the index is stale and must be rebuilt.
func (c *Cache) HasTopics() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics) > 0
}

// TopicFor returns the topic a session is assigned to, walking the
// official topic order so the answer matches first-match-wins policy.
func (c *Cache) TopicFor(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range OfficialTopics() {
		for _, sid := range c.topics[t.Slug] {
			if sid == id {
				return t.Slug
			}
		}
	}
	return ""
}

// Snapshot returns a deep copy of the cache state for persistence.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		Sessions: make(map[string]Session, len(c.sessions)),
		Topics:   make(TopicMap, len(c.topics)),
	}
	for id, s := range c.sessions {
		snap.Sessions[id] = copySession(s)
	}
	for slug, ids := range c.topics {
		snap.Topics[slug] = append([]string(nil), ids...)
	}
	return snap
}

func copySession(s *Session) Session {
	out := *s
	out.Chapters = append([]Chapter(nil), s.Chapters...)
	out.Resources = append([]Resource(nil), s.Resources...)
	return out
}

// CacheStore loads and persists a cache. Load is tolerant: a missing or
// corrupt file yields an empty cache plus warnings, never a hard error.
// Save must be atomic so a crash mid-write cannot corrupt the file.
type CacheStore interface {
	Load(ctx context.Context) (*Cache, []error, error)
	Save(ctx context.Context, cache *Cache) error
}
