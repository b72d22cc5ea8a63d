package directory

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/infinivision/sectorfs/bitmap"
	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/errmsg"
	"github.com/infinivision/sectorfs/extent"
	"github.com/infinivision/sectorfs/file"
)

func New(size int) *Directory {
	return &Directory{table: make([]Entry, size)}
}

// Load opens the directory file whose extent record sits at sector sn
// and fetches its table.
func Load(d disk.Disk, sn int32) (*Directory, error) {
	f, err := file.Open(d, sn)
	if err != nil {
		return nil, err
	}
	dir := New(constant.NumDirEntries)
	if err := dir.FetchFrom(f); err != nil {
		return nil, err
	}
	return dir, nil
}

func (dir *Directory) FetchFrom(f io.ReaderAt) error {
	buf := make([]byte, len(dir.table)*constant.DirEntrySize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return err
	}
	for i := range dir.table {
		dir.table[i] = decodeEntry(buf[i*constant.DirEntrySize:])
	}
	return nil
}

func (dir *Directory) WriteBack(f io.WriterAt) error {
	buf := make([]byte, len(dir.table)*constant.DirEntrySize)
	for i := range dir.table {
		encodeEntry(&dir.table[i], buf[i*constant.DirEntrySize:])
	}
	_, err := f.WriteAt(buf, 0)
	return err
}

// Find returns the record sector bound to name, or -1 when the name is
// not in this table.
func (dir *Directory) Find(name string) int32 {
	if i := dir.index(name); i != -1 {
		return dir.table[i].Sector
	}
	return -1
}

// Add binds name to the record at sector sn in the first unused slot.
// The table never grows.
func (dir *Directory) Add(name string, sn int32, isDir bool) error {
	if len(name) > constant.FileNameMaxLen {
		return errmsg.NameTooLong
	}
	if dir.index(name) != -1 {
		return errmsg.NameExists
	}
	for i := range dir.table {
		if !dir.table[i].InUse {
			dir.table[i] = Entry{Name: name, Sector: sn, InUse: true, IsDirectory: isDir}
			return nil
		}
	}
	return errmsg.DirectoryFull
}

// Remove releases name's slot for reuse by a later Add.
func (dir *Directory) Remove(name string) error {
	i := dir.index(name)
	if i == -1 {
		return errmsg.NameNotFound
	}
	dir.table[i].InUse = false
	return nil
}

// Entries returns the in-use entries in slot order.
func (dir *Directory) Entries() []Entry {
	var es []Entry
	for _, e := range dir.table {
		if e.InUse {
			es = append(es, e)
		}
	}
	return es
}

// FindPath looks up the path component at depth in this table and
// descends through nested tables until the last component, which may
// name a file or a directory.
func (dir *Directory) FindPath(d disk.Disk, p *AbsolutePath, depth int) (int32, bool, error) {
	i := dir.index(p.Name(depth))
	if i == -1 {
		return -1, false, errmsg.NameNotFound
	}
	e := dir.table[i]
	if depth == p.Depth()-1 {
		return e.Sector, e.IsDirectory, nil
	}
	if !e.IsDirectory {
		return -1, false, errmsg.NotDirectory
	}
	child, err := Load(d, e.Sector)
	if err != nil {
		return -1, false, err
	}
	return child.FindPath(d, p, depth+1)
}

// AddPath descends to the directory that will hold the path's last
// component and inserts the entry there. Every child table fetched on
// the way down is written back once the insert below it has succeeded;
// the caller persists this table itself.
func (dir *Directory) AddPath(d disk.Disk, p *AbsolutePath, depth int, sn int32, isDir bool) error {
	if depth == p.Depth()-1 {
		return dir.Add(p.Name(depth), sn, isDir)
	}
	i := dir.index(p.Name(depth))
	if i == -1 {
		return errmsg.NameNotFound
	}
	e := dir.table[i]
	if !e.IsDirectory {
		return errmsg.NotDirectory
	}
	f, err := file.Open(d, e.Sector)
	if err != nil {
		return err
	}
	child := New(constant.NumDirEntries)
	if err := child.FetchFrom(f); err != nil {
		return err
	}
	if err := child.AddPath(d, p, depth+1, sn, isDir); err != nil {
		return err
	}
	return child.WriteBack(f)
}

// RemoveAll deallocates every entry in the table, descending into child
// directories before releasing their storage, so nothing in a subtree
// outlives its removal.
func (dir *Directory) RemoveAll(d disk.Disk, bm bitmap.Bitmap) error {
	for i := range dir.table {
		if !dir.table[i].InUse {
			continue
		}
		e := dir.table[i]
		if e.IsDirectory {
			child, err := Load(d, e.Sector)
			if err != nil {
				return err
			}
			if err := child.RemoveAll(d, bm); err != nil {
				return err
			}
		}
		hdr, err := extent.Fetch(d, e.Sector)
		if err != nil {
			return err
		}
		if err := hdr.Deallocate(d, bm); err != nil {
			return err
		}
		bm.Clear(e.Sector)
		dir.table[i].InUse = false
	}
	return nil
}

func (dir *Directory) index(name string) int {
	for i := range dir.table {
		if dir.table[i].InUse && dir.table[i].Name == name {
			return i
		}
	}
	return -1
}

func decodeEntry(buf []byte) Entry {
	n := bytes.IndexByte(buf[:nameField], 0)
	if n == -1 {
		n = nameField
	}
	return Entry{
		Name:        string(buf[:n]),
		InUse:       buf[nameField] != 0,
		IsDirectory: buf[nameField+1] != 0,
		Sector:      int32(binary.LittleEndian.Uint32(buf[nameField+2:])),
	}
}

func encodeEntry(e *Entry, buf []byte) {
	copy(buf, e.Name)
	if e.InUse {
		buf[nameField] = 1
	}
	if e.IsDirectory {
		buf[nameField+1] = 1
	}
	binary.LittleEndian.PutUint32(buf[nameField+2:], uint32(e.Sector))
}
