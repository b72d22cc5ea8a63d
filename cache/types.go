package cache

import (
	"container/list"

	"github.com/infinivision/sectorfs/disk"
)

const (
	MinCacheSize = 8
)

type entry struct {
	sn  int32
	buf []byte
	e   *list.Element
}

type cache struct {
	limit int
	d     disk.Disk
	mp    map[int32]*entry
	lru   *list.List
}
