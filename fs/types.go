package fs

import (
	"io"
	"sync"

	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/directory"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/file"
	"github.com/nnsgmsone/damrey/logger"
)

// FileID names an entry in the open-file table.
type FileID int32

// EntryInfo describes one name found during a listing. Depth counts
// levels below the listed directory.
type EntryInfo struct {
	Name        string
	Depth       int
	Sector      int32
	IsDirectory bool
}

/*
FileSystem provides the operations of the storage layer. Operations on
the same image are serialized by one mutex and mutate in-memory copies
first, so a failed operation leaves no half-written structure behind.
*/
type FileSystem interface {
	Close() error

	Create(name string, size int32) error
	CreateDirectory(name string) error
	Open(name string) (*file.File, error)
	Remove(name string) error
	RemoveRecursively(name string) error
	List(name string, recursive bool) ([]EntryInfo, error)
	FreeSectors() (int, error)
	Print(w io.Writer) error

	OpenFile(name string) (FileID, error)
	ReadFile(id FileID, p []byte) (int, error)
	WriteFile(id FileID, p []byte) (int, error)
	CloseFile(id FileID) error
}

type Config struct {
	CacheSize  int // sectors held in memory
	Path       string
	SyncWrites bool
	Format     bool
	LogWriter  io.Writer
}

type fileSystem struct {
	sync.Mutex
	d     disk.Disk
	log   logger.Log
	free  *file.File // the bitmap file, open for the life of the mount
	root  *file.File // the root directory file
	next  FileID
	files map[FileID]*file.File
}

func (f *fileSystem) fetchRoot() (*directory.Directory, error) {
	root := directory.New(constant.NumDirEntries)
	if err := root.FetchFrom(f.root); err != nil {
		return nil, err
	}
	return root, nil
}

func (f *fileSystem) fetchDirectory(sn int32) (*directory.Directory, *file.File, error) {
	fp, err := file.Open(f.d, sn)
	if err != nil {
		return nil, nil, err
	}
	dir := directory.New(constant.NumDirEntries)
	if err := dir.FetchFrom(fp); err != nil {
		return nil, nil, err
	}
	return dir, fp, nil
}
