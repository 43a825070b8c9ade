// Package cache reuses previously computed audit results for identical
// content. Entries are keyed by (target, content hash) and are never
// mutated, only superseded by a newer entry under a newer hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Cache is the byte-level storage layer
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for one target at one content version
func Key(target, contentHash string) string {
	sum := sha256.Sum256([]byte(target))
	return "citescope:v1:" + hex.EncodeToString(sum[:8]) + ":" + contentHash
}

// HashContent returns the content hash of a normalized body
func HashContent(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// AuditCache stores whole audit results on top of a byte cache
type AuditCache struct {
	backend Cache
	window  time.Duration // Freshness window
}

// NewAuditCache wraps a byte cache with audit-result encoding
func NewAuditCache(backend Cache, window time.Duration) *AuditCache {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &AuditCache{backend: backend, window: window}
}

// Lookup returns a prior result for this exact content version, if still
// inside the freshness window
func (c *AuditCache) Lookup(target, contentHash string) (*model.AuditResult, bool) {
	data, ok := c.backend.Get(Key(target, contentHash))
	if !ok {
		return nil, false
	}
	var result model.AuditResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Store records a fresh result; stale entries are left in place and expire
func (c *AuditCache) Store(target string, result *model.AuditResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.backend.Set(Key(target, result.ContentHash), data, c.window)
}
