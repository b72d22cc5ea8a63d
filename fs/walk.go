package fs

import (
	"fmt"
	"io"
	"strings"

	"github.com/infinivision/sectorfs/bitmap"
	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/directory"
	"github.com/infinivision/sectorfs/errmsg"
	"github.com/infinivision/sectorfs/extent"
	"github.com/infinivision/sectorfs/stack"
)

type frame struct {
	es    []directory.Entry
	idx   int
	depth int
}

// List returns a directory's entries. With recursive set it walks the
// whole subtree in preorder and records each entry's depth below name.
func (f *fileSystem) List(name string, recursive bool) ([]EntryInfo, error) {
	f.Lock()
	defer f.Unlock()
	p, err := directory.ParsePath(name)
	if err != nil {
		return nil, err
	}
	root, err := f.fetchRoot()
	if err != nil {
		return nil, err
	}
	sn, isDir, err := p.Sector(f.d, root, constant.RootDirSector)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, errmsg.NotDirectory
	}
	dir, err := directory.Load(f.d, sn)
	if err != nil {
		return nil, err
	}
	if !recursive {
		var es []EntryInfo
		for _, e := range dir.Entries() {
			es = append(es, EntryInfo{Name: e.Name, Sector: e.Sector, IsDirectory: e.IsDirectory})
		}
		return es, nil
	}
	return f.walk(dir)
}

// walk drives the traversal with an explicit worklist of table cursors
// instead of recursion.
func (f *fileSystem) walk(dir *directory.Directory) ([]EntryInfo, error) {
	var out []EntryInfo
	s := stack.New()
	s.Push(&frame{es: dir.Entries()})
	for !s.IsEmpty() {
		fr := s.Peek().(*frame)
		if fr.idx == len(fr.es) {
			s.Pop()
			continue
		}
		e := fr.es[fr.idx]
		fr.idx++
		out = append(out, EntryInfo{Name: e.Name, Depth: fr.depth, Sector: e.Sector, IsDirectory: e.IsDirectory})
		if e.IsDirectory {
			child, err := directory.Load(f.d, e.Sector)
			if err != nil {
				return nil, err
			}
			s.Push(&frame{es: child.Entries(), depth: fr.depth + 1})
		}
	}
	return out, nil
}

// Print dumps the system records, the bitmap population and the whole
// tree to w.
func (f *fileSystem) Print(w io.Writer) error {
	f.Lock()
	defer f.Unlock()
	mapHdr, err := extent.Fetch(f.d, constant.FreeMapSector)
	if err != nil {
		return err
	}
	dirHdr, err := extent.Fetch(f.d, constant.RootDirSector)
	if err != nil {
		return err
	}
	bm, err := bitmap.Fetch(f.free, constant.NumSectors)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "bitmap file: %d bytes, %d sectors, level %d\n", mapHdr.Length(), mapHdr.Sectors(), mapHdr.Level())
	fmt.Fprintf(w, "root directory: %d bytes, %d sectors, level %d\n", dirHdr.Length(), dirHdr.Sectors(), dirHdr.Level())
	fmt.Fprintf(w, "free sectors: %d of %d\n", bm.NumClear(), constant.NumSectors)
	root, err := f.fetchRoot()
	if err != nil {
		return err
	}
	es, err := f.walk(root)
	if err != nil {
		return err
	}
	for _, e := range es {
		kind := "[F]"
		if e.IsDirectory {
			kind = "[D]"
		}
		hdr, err := extent.Fetch(f.d, e.Sector)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s %s: sector %d, %d bytes\n", strings.Repeat("  ", e.Depth), kind, e.Name, e.Sector, hdr.Length())
	}
	return nil
}
