package fs

import (
	"os"

	"github.com/infinivision/sectorfs/bitmap"
	"github.com/infinivision/sectorfs/cache"
	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/directory"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/errmsg"
	"github.com/infinivision/sectorfs/extent"
	"github.com/infinivision/sectorfs/file"
	"github.com/nnsgmsone/damrey/logger"
)

func DefaultConfig() Config {
	return Config{
		CacheSize: 64,
		Path:      "DISK",
		LogWriter: os.Stderr,
	}
}

// Open attaches the image at cfg.Path, formatting it when it is brand
// new or cfg.Format is set, and keeps the bitmap and root directory
// files open until Close.
func Open(cfg Config) (*fileSystem, error) {
	log := logger.New(cfg.LogWriter, "sectorfs")
	d, err := disk.New(cfg.Path, cfg.SyncWrites)
	if err != nil {
		return nil, err
	}
	f := &fileSystem{
		log:   log,
		next:  1,
		d:     cache.New(cfg.CacheSize, d),
		files: make(map[FileID]*file.File),
	}
	if d.Fresh() || cfg.Format {
		if err := f.format(); err != nil {
			f.d.Close()
			return nil, err
		}
	}
	if f.free, err = file.Open(f.d, constant.FreeMapSector); err != nil {
		f.d.Close()
		return nil, err
	}
	if f.root, err = file.Open(f.d, constant.RootDirSector); err != nil {
		f.d.Close()
		return nil, err
	}
	return f, nil
}

func (f *fileSystem) Close() error {
	f.Lock()
	defer f.Unlock()
	for id := range f.files {
		delete(f.files, id)
	}
	if err := f.d.Flush(); err != nil {
		f.log.Errorf("flush on close: %v\n", err)
	}
	return f.d.Close()
}

// Create makes a file of fixed size under an existing parent directory.
// The record, the parent table and the bitmap reach the device in that
// order, and only once every step has succeeded in memory.
func (f *fileSystem) Create(name string, size int32) error {
	f.Lock()
	defer f.Unlock()
	p, err := directory.ParsePath(name)
	if err != nil {
		return err
	}
	if p.Depth() == 0 {
		return errmsg.NameExists
	}
	root, err := f.fetchRoot()
	if err != nil {
		return err
	}
	parentSector, err := p.UpperLevelSector(f.d, root, constant.RootDirSector)
	if err != nil {
		return err
	}
	parent, parentFile, err := f.fetchDirectory(parentSector)
	if err != nil {
		return err
	}
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return err
	}
	sn := bm.FindAndSet() // the record sector
	if sn == -1 {
		return errmsg.NoFreeSector
	}
	if err := parent.Add(p.Last(), sn, false); err != nil {
		return err
	}
	hdr := extent.New()
	if err := hdr.Allocate(f.d, bm, size); err != nil {
		return err
	}
	if err := hdr.WriteBack(f.d, sn); err != nil {
		return err
	}
	if err := parent.WriteBack(parentFile); err != nil {
		return err
	}
	return bm.WriteBack(f.free)
}

// CreateDirectory makes an empty directory. Its record and empty table
// are on the device before any parent table points at them; the bitmap
// is persisted last.
func (f *fileSystem) CreateDirectory(name string) error {
	f.Lock()
	defer f.Unlock()
	p, err := directory.ParsePath(name)
	if err != nil {
		return err
	}
	if p.Depth() == 0 {
		return errmsg.NameExists
	}
	root, err := f.fetchRoot()
	if err != nil {
		return err
	}
	if _, _, err := p.Sector(f.d, root, constant.RootDirSector); err == nil {
		return errmsg.NameExists
	} else if err != errmsg.NameNotFound {
		return err
	}
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return err
	}
	sn := bm.FindAndSet()
	if sn == -1 {
		return errmsg.NoFreeSector
	}
	hdr := extent.New()
	if err := hdr.Allocate(f.d, bm, constant.DirectoryFileSize); err != nil {
		return err
	}
	if err := hdr.WriteBack(f.d, sn); err != nil {
		return err
	}
	fp, err := file.Open(f.d, sn)
	if err != nil {
		return err
	}
	if err := directory.New(constant.NumDirEntries).WriteBack(fp); err != nil {
		return err
	}
	if err := root.AddPath(f.d, p, 0, sn, true); err != nil {
		return err
	}
	if err := root.WriteBack(f.root); err != nil {
		return err
	}
	return bm.WriteBack(f.free)
}

// Open resolves a path to a fresh byte-level handle.
func (f *fileSystem) Open(name string) (*file.File, error) {
	f.Lock()
	defer f.Unlock()
	return f.open(name)
}

func (f *fileSystem) Remove(name string) error {
	f.Lock()
	defer f.Unlock()
	return f.remove(name)
}

// RemoveRecursively removes a file, or a directory together with
// everything below it: descendants first, then the directory's own
// storage, then its entry in the parent.
func (f *fileSystem) RemoveRecursively(name string) error {
	f.Lock()
	defer f.Unlock()
	p, err := directory.ParsePath(name)
	if err != nil {
		return err
	}
	if p.Depth() == 0 {
		return errmsg.BadPath
	}
	root, err := f.fetchRoot()
	if err != nil {
		return err
	}
	sn, isDir, err := p.Sector(f.d, root, constant.RootDirSector)
	if err != nil {
		return err
	}
	if !isDir {
		return f.remove(name)
	}
	parentSector, err := p.UpperLevelSector(f.d, root, constant.RootDirSector)
	if err != nil {
		return err
	}
	parent, parentFile, err := f.fetchDirectory(parentSector)
	if err != nil {
		return err
	}
	target, err := directory.Load(f.d, sn)
	if err != nil {
		return err
	}
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return err
	}
	if err := target.RemoveAll(f.d, bm); err != nil {
		return err
	}
	hdr, err := extent.Fetch(f.d, sn)
	if err != nil {
		return err
	}
	if err := hdr.Deallocate(f.d, bm); err != nil {
		return err
	}
	bm.Clear(sn)
	if err := parent.Remove(p.Last()); err != nil {
		return err
	}
	if err := parent.WriteBack(parentFile); err != nil {
		return err
	}
	return bm.WriteBack(f.free)
}

// FreeSectors reports how many sectors the bitmap has clear.
func (f *fileSystem) FreeSectors() (int, error) {
	f.Lock()
	defer f.Unlock()
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return 0, err
	}
	return bm.NumClear(), nil
}

func (f *fileSystem) open(name string) (*file.File, error) {
	p, err := directory.ParsePath(name)
	if err != nil {
		return nil, err
	}
	root, err := f.fetchRoot()
	if err != nil {
		return nil, err
	}
	sn, _, err := p.Sector(f.d, root, constant.RootDirSector)
	if err != nil {
		return nil, err
	}
	return file.Open(f.d, sn)
}

// remove deletes a plain file: its data and index sectors, its record
// sector and its parent entry. Directories go through RemoveRecursively.
func (f *fileSystem) remove(name string) error {
	p, err := directory.ParsePath(name)
	if err != nil {
		return err
	}
	if p.Depth() == 0 {
		return errmsg.BadPath
	}
	root, err := f.fetchRoot()
	if err != nil {
		return err
	}
	sn, isDir, err := p.Sector(f.d, root, constant.RootDirSector)
	if err != nil {
		return err
	}
	if isDir {
		return errmsg.IsDirectory
	}
	parentSector, err := p.UpperLevelSector(f.d, root, constant.RootDirSector)
	if err != nil {
		return err
	}
	parent, parentFile, err := f.fetchDirectory(parentSector)
	if err != nil {
		return err
	}
	hdr, err := extent.Fetch(f.d, sn)
	if err != nil {
		return err
	}
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return err
	}
	if err := hdr.Deallocate(f.d, bm); err != nil {
		return err
	}
	bm.Clear(sn)
	if err := parent.Remove(p.Last()); err != nil {
		return err
	}
	if err := bm.WriteBack(f.free); err != nil {
		return err
	}
	return parent.WriteBack(parentFile)
}

// format lays down an empty file system: the bitmap claims the two
// well-known sectors, both system extents are allocated and written,
// then the bitmap and the empty root table are persisted through their
// own files.
func (f *fileSystem) format() error {
	bm := bitmap.New(constant.NumSectors)
	bm.Mark(constant.FreeMapSector)
	bm.Mark(constant.RootDirSector)
	mapHdr := extent.New()
	if err := mapHdr.Allocate(f.d, bm, constant.FreeMapFileSize); err != nil {
		return err
	}
	dirHdr := extent.New()
	if err := dirHdr.Allocate(f.d, bm, constant.DirectoryFileSize); err != nil {
		return err
	}
	if err := mapHdr.WriteBack(f.d, constant.FreeMapSector); err != nil {
		return err
	}
	if err := dirHdr.WriteBack(f.d, constant.RootDirSector); err != nil {
		return err
	}
	freeFile, err := file.Open(f.d, constant.FreeMapSector)
	if err != nil {
		return err
	}
	rootFile, err := file.Open(f.d, constant.RootDirSector)
	if err != nil {
		return err
	}
	if err := bm.WriteBack(freeFile); err != nil {
		return err
	}
	return directory.New(constant.NumDirEntries).WriteBack(rootFile)
}
