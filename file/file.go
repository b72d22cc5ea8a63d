package file

import (
	"io"

	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/extent"
)

// Open binds a handle to the extent record stored at sector sn.
func Open(d disk.Disk, sn int32) (*File, error) {
	hdr, err := extent.Fetch(d, sn)
	if err != nil {
		return nil, err
	}
	return &File{sn: sn, d: d, hdr: hdr}, nil
}

// ReadAt reads into p starting at byte off. A request past the end of
// the file is clamped and reports io.EOF along with the bytes that were
// available.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	length := int64(f.hdr.Length())
	if off < 0 || off >= length {
		return 0, io.EOF
	}
	var short bool
	if max := length - off; int64(len(p)) > max {
		p = p[:max]
		short = true
	}
	buf := make([]byte, constant.SectorSize)
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		sn, err := f.hdr.ByteToSector(f.d, int32(pos))
		if err != nil {
			return n, err
		}
		if err := f.d.ReadSector(sn, buf); err != nil {
			return n, err
		}
		n += copy(p[n:], buf[pos%constant.SectorSize:])
	}
	if short {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p starting at byte off. Partial boundary sectors are
// read first so bytes around the write survive. Files never grow: a
// request past the end is clamped and reports io.EOF.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	length := int64(f.hdr.Length())
	if off < 0 || off >= length {
		return 0, io.EOF
	}
	var short bool
	if max := length - off; int64(len(p)) > max {
		p = p[:max]
		short = true
	}
	buf := make([]byte, constant.SectorSize)
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		sn, err := f.hdr.ByteToSector(f.d, int32(pos))
		if err != nil {
			return n, err
		}
		o := int(pos % constant.SectorSize)
		m := constant.SectorSize - o
		if m > len(p)-n {
			m = len(p) - n
		}
		if o != 0 || m != constant.SectorSize {
			if err := f.d.ReadSector(sn, buf); err != nil {
				return n, err
			}
		}
		copy(buf[o:], p[n:n+m])
		if err := f.d.WriteSector(sn, buf); err != nil {
			return n, err
		}
		n += m
	}
	if short {
		return n, io.EOF
	}
	return n, nil
}

// Read and Write advance the handle's seek position.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, int64(f.pos))
	f.pos += int32(n)
	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, int64(f.pos))
	f.pos += int32(n)
	return n, err
}
