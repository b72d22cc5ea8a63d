package disk

import (
	"encoding/binary"
	"os"

	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/errmsg"
	"github.com/infinivision/sectorfs/sum"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// New attaches the sector image at path, creating and preallocating it
// when it does not exist yet. With sync set every write reaches the
// platter before returning.
func New(path string, sync bool) (*device, error) {
	flag := os.O_CREATE | os.O_RDWR
	if sync {
		flag |= unix.O_DSYNC
	}
	fp, err := os.OpenFile(path, flag, 0664)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	st, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, errors.WithStack(err)
	}
	d := &device{fp: fp, cnt: constant.NumSectors}
	if st.Size() == 0 {
		if err := d.init(); err != nil {
			fp.Close()
			return nil, err
		}
		d.fresh = true
		return d, nil
	}
	if err := d.validate(); err != nil {
		fp.Close()
		return nil, err
	}
	return d, nil
}

func (d *device) Close() error {
	return d.fp.Close()
}

func (d *device) Flush() error {
	return d.fp.Sync()
}

// Fresh reports whether New created the image rather than attached an
// existing one.
func (d *device) Fresh() bool {
	return d.fresh
}

func (d *device) Sectors() int32 {
	return d.cnt
}

func (d *device) ReadSector(sn int32, buf []byte) error {
	if sn < 0 || sn >= d.cnt || len(buf) != constant.SectorSize {
		return errmsg.ReadFailed
	}
	return d.readAt(buf, offset(sn))
}

func (d *device) WriteSector(sn int32, buf []byte) error {
	if sn < 0 || sn >= d.cnt || len(buf) != constant.SectorSize {
		return errmsg.WriteFailed
	}
	return d.writeAt(buf, offset(sn))
}

// init stamps the header block and reserves room for every sector, so
// that later sector writes cannot run out of space.
func (d *device) init() error {
	buf := make([]byte, HeaderSize)
	copy(buf, Magic)
	binary.LittleEndian.PutUint32(buf[8:], uint32(constant.SectorSize))
	binary.LittleEndian.PutUint32(buf[12:], uint32(d.cnt))
	binary.LittleEndian.PutUint32(buf[16:], sum.Sum32(buf[:16]))
	if err := d.writeAt(buf, 0); err != nil {
		return err
	}
	size := int64(HeaderSize) + int64(d.cnt)*constant.SectorSize
	if err := unix.Fallocate(int(d.fp.Fd()), 0, 0, size); err != nil {
		return errors.WithStack(d.fp.Truncate(size))
	}
	return nil
}

func (d *device) validate() error {
	buf := make([]byte, HeaderSize)
	if err := d.readAt(buf, 0); err != nil {
		return err
	}
	if string(buf[:len(Magic)]) != Magic {
		return errors.Errorf("'%s' is not a sector image", d.fp.Name())
	}
	if binary.LittleEndian.Uint32(buf[16:]) != sum.Sum32(buf[:16]) {
		return errors.Errorf("corrupt image header in '%s'", d.fp.Name())
	}
	if n := binary.LittleEndian.Uint32(buf[8:]); n != constant.SectorSize {
		return errors.Errorf("sector size is not expected: %d", n)
	}
	if n := binary.LittleEndian.Uint32(buf[12:]); n != uint32(d.cnt) {
		return errors.Errorf("sector count is not expected: %d", n)
	}
	return nil
}

func offset(sn int32) int64 {
	return int64(HeaderSize) + int64(sn)*constant.SectorSize
}

func (d *device) readAt(buf []byte, o int64) error {
	n, err := d.fp.ReadAt(buf, o)
	switch {
	case err != nil:
		return errors.WithStack(err)
	case n != len(buf):
		return errmsg.ReadFailed
	}
	return nil
}

func (d *device) writeAt(buf []byte, o int64) error {
	n, err := d.fp.WriteAt(buf, o)
	switch {
	case err != nil:
		return errors.WithStack(err)
	case n != len(buf):
		return errmsg.WriteFailed
	}
	return nil
}
