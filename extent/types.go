package extent

import (
	"github.com/infinivision/sectorfs/constant"
)

const (
	scalarFields = 3 * 4 // bytes, sectors, level
)

// Extent is the on-disk record describing a file's storage: one sector
// holding the logical length, the sector total of the whole tree and
// NumDirect child slots. At level 1 the slots point at data sectors,
// above that at child extent records.
type Extent struct {
	bytes   int32
	sectors int32
	level   int32
	slots   [constant.NumDirect]int32
}

func (e *Extent) Length() int32 {
	return e.bytes
}

func (e *Extent) Sectors() int32 {
	return e.sectors
}

func (e *Extent) Level() int32 {
	return e.level
}
