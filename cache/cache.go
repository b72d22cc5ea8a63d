package cache

import (
	"container/list"

	"github.com/infinivision/sectorfs/disk"
)

// New wraps d with an in-memory copy of the most recently used sectors.
// Writes go through to the device before the copy is updated, so the
// device never lags behind the cache.
func New(limit int, d disk.Disk) *cache {
	if limit < MinCacheSize {
		limit = MinCacheSize
	}
	return &cache{
		d:     d,
		limit: limit,
		lru:   new(list.List),
		mp:    make(map[int32]*entry),
	}
}

func (c *cache) Close() error {
	return c.d.Close()
}

func (c *cache) Flush() error {
	return c.d.Flush()
}

func (c *cache) Sectors() int32 {
	return c.d.Sectors()
}

func (c *cache) ReadSector(sn int32, buf []byte) error {
	if e, ok := c.mp[sn]; ok {
		c.lru.MoveToFront(e.e)
		copy(buf, e.buf)
		return nil
	}
	if err := c.d.ReadSector(sn, buf); err != nil {
		return err
	}
	c.set(sn, buf)
	return nil
}

func (c *cache) WriteSector(sn int32, buf []byte) error {
	if err := c.d.WriteSector(sn, buf); err != nil {
		return err
	}
	if e, ok := c.mp[sn]; ok {
		c.lru.MoveToFront(e.e)
		copy(e.buf, buf)
		return nil
	}
	c.set(sn, buf)
	return nil
}

func (c *cache) set(sn int32, buf []byte) {
	e := &entry{sn: sn, buf: append([]byte{}, buf...)}
	e.e = c.lru.PushFront(e)
	c.mp[sn] = e
	if c.lru.Len() > c.limit {
		c.release()
	}
}

func (c *cache) release() {
	if el := c.lru.Back(); el != nil {
		e := el.Value.(*entry)
		c.lru.Remove(el)
		delete(c.mp, e.sn)
	}
}
