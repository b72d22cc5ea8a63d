package file

import (
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/extent"
)

// File is a handle for byte-level access to one file: the extent record
// it was opened from plus a seek position. Handles are cheap, hold no
// device resources and need no close.
type File struct {
	sn  int32 // sector of the extent record
	pos int32
	d   disk.Disk
	hdr *extent.Extent
}

func (f *File) Sector() int32 {
	return f.sn
}

func (f *File) Length() int32 {
	return f.hdr.Length()
}

func (f *File) Seek(pos int32) {
	f.pos = pos
}
