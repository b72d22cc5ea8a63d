package directory

import (
	"github.com/infinivision/sectorfs/constant"
)

const (
	nameField = constant.FileNameMaxLen + 1
)

// Entry is one fixed-size slot in a directory table: a zero-padded name,
// two flag bytes and the sector of the target's extent record.
type Entry struct {
	Name        string
	Sector      int32
	InUse       bool
	IsDirectory bool
}

// Directory is the in-memory copy of one directory table. Mutations stay
// in memory until WriteBack.
type Directory struct {
	table []Entry
}

// AbsolutePath is a parsed slash-delimited path. The root "/" has depth
// zero.
type AbsolutePath struct {
	names []string
}
