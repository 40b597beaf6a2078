package content

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// assetCache is a lookaside cache for loaded assets. The original
// design used weak references and left eviction to the garbage
// collector; here reclamation is deterministic instead: a bounded LRU
// drops the least recently used entry under capacity pressure. A miss
// is indistinguishable to callers whether the key was never loaded or
// its entry was evicted, and both lead to a reload.
type assetCache struct {
	lru *lru.Cache[Key, any]
}

func newAssetCache(size int) (*assetCache, error) {
	c, err := lru.New[Key, any](size)
	if err != nil {
		return nil, err
	}
	return &assetCache{lru: c}, nil
}

func (c *assetCache) get(k Key) (any, bool) {
	return c.lru.Get(k)
}

// put stores the asset under k, replacing a previous entry for the
// same key.
func (c *assetCache) put(k Key, asset any) {
	c.lru.Add(k, asset)
}

func (c *assetCache) remove(k Key) {
	c.lru.Remove(k)
}

func (c *assetCache) len() int {
	return c.lru.Len()
}
