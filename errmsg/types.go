package errmsg

import "errors"

var (
	BadPath          = errors.New("bad absolute path")
	BadSize          = errors.New("bad file size")
	ReadFailed       = errors.New("read failed")
	NameExists       = errors.New("name already exists")
	WriteFailed      = errors.New("write failed")
	NameTooLong      = errors.New("name too long")
	IsDirectory      = errors.New("is a directory")
	NoFreeSector     = errors.New("no free sector")
	FileTooLarge     = errors.New("file too large")
	NameNotFound     = errors.New("name not found")
	NotDirectory     = errors.New("not a directory")
	InvalidHandle    = errors.New("invalid handle")
	DirectoryFull    = errors.New("directory full")
	OffsetOutOfRange = errors.New("offset out of range")
)
