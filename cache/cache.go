package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache holds lookup results keyed by content hash. Entries are only ever
// written once a record is fully consistent, so there is no invalidation.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
}

type LocalCache struct {
	*lru.Cache
}

func NewLocalCache(size uint64) (Cache, error) {
	cache, err := lru.New(int(size))
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache,
	}, nil
}

func (c *LocalCache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *LocalCache) Set(key string, value interface{}) {
	c.Cache.Add(key, value)
}
