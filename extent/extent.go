package extent

import (
	"encoding/binary"

	"github.com/infinivision/sectorfs/bitmap"
	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/errmsg"
)

func New() *Extent {
	return &Extent{level: 1}
}

// Fetch reads the extent record stored at sector sn.
func Fetch(d disk.Disk, sn int32) (*Extent, error) {
	buf := make([]byte, constant.SectorSize)
	if err := d.ReadSector(sn, buf); err != nil {
		return nil, err
	}
	e := new(Extent)
	e.decode(buf)
	return e, nil
}

// WriteBack stores the record into sector sn. A record fills its sector
// exactly.
func (e *Extent) WriteBack(d disk.Disk, sn int32) error {
	buf := make([]byte, constant.SectorSize)
	e.encode(buf)
	return d.WriteSector(sn, buf)
}

// Capacity returns the byte capacity of an index tree of the given level.
func Capacity(level int32) int64 {
	c := int64(constant.SectorSize)
	for i := int32(0); i < level; i++ {
		c *= constant.NumDirect
	}
	return c
}

// Allocate claims sectors for n bytes of data at the smallest level whose
// capacity holds n. Data sectors are packed left to right and a subtree is
// filled completely before its right sibling gets a sector. Child records
// are written to the device here; the caller persists the root record. On
// failure every sector this call claimed is released again, so bm is left
// exactly as it was.
func (e *Extent) Allocate(d disk.Disk, bm bitmap.Bitmap, n int32) error {
	if n < 0 {
		return errmsg.BadSize
	}
	level, err := minLevel(n)
	if err != nil {
		return err
	}
	a := &allocation{d: d, bm: bm}
	if err := a.fill(e, level, n); err != nil {
		a.undo()
		return err
	}
	return nil
}

// Deallocate releases every sector in the tree, child records included.
// The sector holding the root record itself belongs to the caller.
func (e *Extent) Deallocate(d disk.Disk, bm bitmap.Bitmap) error {
	if e.level == 1 {
		for i := int32(0); i < divRoundUp(e.bytes, constant.SectorSize); i++ {
			bm.Clear(e.slots[i])
		}
		return nil
	}
	childCap := Capacity(e.level - 1)
	cnt := int32((int64(e.bytes) + childCap - 1) / childCap)
	for i := int32(0); i < cnt; i++ {
		child, err := Fetch(d, e.slots[i])
		if err != nil {
			return err
		}
		if err := child.Deallocate(d, bm); err != nil {
			return err
		}
		bm.Clear(e.slots[i])
	}
	return nil
}

// ByteToSector maps a byte offset to the data sector holding it.
func (e *Extent) ByteToSector(d disk.Disk, off int32) (int32, error) {
	if off < 0 || off >= e.bytes {
		return -1, errmsg.OffsetOutOfRange
	}
	if e.level == 1 {
		return e.slots[off/constant.SectorSize], nil
	}
	childCap := Capacity(e.level - 1)
	child, err := Fetch(d, e.slots[int(int64(off)/childCap)])
	if err != nil {
		return -1, err
	}
	return child.ByteToSector(d, int32(int64(off)%childCap))
}

func minLevel(n int32) (int32, error) {
	for level := int32(1); level <= constant.MaxLevel; level++ {
		if Capacity(level) >= int64(n) {
			return level, nil
		}
	}
	return 0, errmsg.FileTooLarge
}

type allocation struct {
	d       disk.Disk
	bm      bitmap.Bitmap
	claimed []int32
}

func (a *allocation) claim() (int32, error) {
	sn := a.bm.FindAndSet()
	if sn == -1 {
		return -1, errmsg.NoFreeSector
	}
	a.claimed = append(a.claimed, sn)
	return sn, nil
}

func (a *allocation) undo() {
	for _, sn := range a.claimed {
		a.bm.Clear(sn)
	}
}

// fill populates e as the root of a subtree of the given level holding
// exactly n bytes. Children before the last one are full subtrees, the
// last holds whatever remains.
func (a *allocation) fill(e *Extent, level int32, n int32) error {
	e.bytes = n
	e.level = level
	e.sectors = 0
	if level == 1 {
		cnt := divRoundUp(n, constant.SectorSize)
		for i := int32(0); i < cnt; i++ {
			sn, err := a.claim()
			if err != nil {
				return err
			}
			e.slots[i] = sn
		}
		e.sectors = cnt
		return nil
	}
	childCap := Capacity(level - 1)
	rest := int64(n)
	for i := 0; rest > 0; i++ {
		sn, err := a.claim()
		if err != nil {
			return err
		}
		childBytes := rest
		if childBytes > childCap {
			childBytes = childCap
		}
		child := New()
		if err := a.fill(child, level-1, int32(childBytes)); err != nil {
			return err
		}
		if err := child.WriteBack(a.d, sn); err != nil {
			return err
		}
		e.slots[i] = sn
		e.sectors += child.sectors + 1
		rest -= childBytes
	}
	return nil
}

func (e *Extent) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf, uint32(e.bytes))
	binary.LittleEndian.PutUint32(buf[4:], uint32(e.sectors))
	binary.LittleEndian.PutUint32(buf[8:], uint32(e.level))
	for i, sn := range e.slots {
		binary.LittleEndian.PutUint32(buf[scalarFields+i*4:], uint32(sn))
	}
}

func (e *Extent) decode(buf []byte) {
	e.bytes = int32(binary.LittleEndian.Uint32(buf))
	e.sectors = int32(binary.LittleEndian.Uint32(buf[4:]))
	e.level = int32(binary.LittleEndian.Uint32(buf[8:]))
	for i := range e.slots {
		e.slots[i] = int32(binary.LittleEndian.Uint32(buf[scalarFields+i*4:]))
	}
}

func divRoundUp(n, m int32) int32 {
	return (n + m - 1) / m
}
