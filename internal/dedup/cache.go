package dedup

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// JobCache is a file-backed Store for runs without a database. Entries older
// than thirty days are dropped on load so re-postings get picked up again.
type JobCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewJobCache creates or loads a job cache under cacheDir.
func NewJobCache(cacheDir string) *JobCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &JobCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

func (jc *JobCache) Exists(ctx context.Context, canonicalURL string) (bool, error) {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	_, exists := jc.seen[canonicalURL]
	return exists, nil
}

func (jc *JobCache) InsertIfAbsent(ctx context.Context, canonicalURL string) (bool, error) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	if _, exists := jc.seen[canonicalURL]; exists {
		return false, nil
	}
	jc.seen[canonicalURL] = time.Now().UnixMilli()
	jc.save()
	return true, nil
}

// load reads the cache from disk into the in-memory map, expiring stale
// entries as it goes.
func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			jc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk. Callers hold the mutex.
func (jc *JobCache) save() {
	entries := make([]seenEntry, 0, len(jc.seen))
	for url, ts := range jc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
