package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"transitctl/pkg/transit"
)

// DefaultTTL determines how long a location search is kept before it is
// asked again. Stops rarely move, so this is generous.
const DefaultTTL = 7 * 24 * time.Hour

// Entry represents the disk data format
type Entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Key       string          `json:"key"`
	Places    []transit.Place `json:"places"`
}

// Places keeps location search results on disk, one file per search.
type Places struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a cache storing its files in dir.
func New(dir string, ttl time.Duration) (*Places, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	return &Places{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Default returns the cache in ~/.transitctl_cache.
func Default() (*Places, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not find user home directory: %w", err)
	}
	return New(filepath.Join(homeDir, ".transitctl_cache"), DefaultTTL)
}

// Key builds the cache key of a search against endpoint.
func Key(endpoint, query string, stopsOnly bool) string {
	return fmt.Sprintf("%s\x00%s\x00%t", endpoint, query, stopsOnly)
}

func (c *Places) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:8])+".json")
}

// Get returns the places stored under key if they have not expired.
func (c *Places) Get(key string) ([]transit.Place, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false // File doesn't exist or can't be read
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	// hash prefix collision
	if entry.Key != key {
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		return nil, false // Expired
	}
	return entry.Places, true
}

// Put stores places under key. Empty results are not cached.
func (c *Places) Put(key string, places []transit.Place) error {
	if len(places) == 0 {
		return nil
	}
	entry := Entry{
		Timestamp: c.now(),
		Key:       key,
		Places:    places,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0644)
}
