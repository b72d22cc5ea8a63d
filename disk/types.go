package disk

import (
	"os"
)

const (
	// HeaderSize is the image header block kept in front of sector 0.
	HeaderSize = 128
)

const (
	Magic = "SECTORFS"
)

type Disk interface {
	Close() error
	Flush() error
	Sectors() int32
	ReadSector(sn int32, buf []byte) error
	WriteSector(sn int32, buf []byte) error
}

type device struct {
	fresh bool
	cnt   int32 // sector count
	fp    *os.File
}
