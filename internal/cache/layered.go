package cache

import "time"

// LayeredCache reads memory first, then disk, promoting disk hits
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache combines a memory tier with an optional disk tier
func NewLayeredCache(memory *MemoryCache, disk *DiskCache) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk}
}

func (l *LayeredCache) Get(key string) ([]byte, bool) {
	if data, ok := l.memory.Get(key); ok {
		return data, true
	}
	if l.disk == nil {
		return nil, false
	}
	data, ok := l.disk.Get(key)
	if ok {
		_ = l.memory.Set(key, data, 0)
	}
	return data, ok
}

func (l *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if l.disk == nil {
		return nil
	}
	return l.disk.Set(key, value, ttl)
}

func (l *LayeredCache) Delete(key string) error {
	if err := l.memory.Delete(key); err != nil {
		return err
	}
	if l.disk == nil {
		return nil
	}
	return l.disk.Delete(key)
}

func (l *LayeredCache) Clear() error {
	if err := l.memory.Clear(); err != nil {
		return err
	}
	if l.disk == nil {
		return nil
	}
	return l.disk.Clear()
}
