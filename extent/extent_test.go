package extent

import (
	"path/filepath"
	"testing"

	"github.com/infinivision/sectorfs/bitmap"
	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/errmsg"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) disk.Disk {
	d, err := disk.New(filepath.Join(t.TempDir(), "DISK"), false)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestCapacity(t *testing.T) {
	require.Equal(t, int64(3712), Capacity(1))
	require.Equal(t, int64(107648), Capacity(2))
	require.Equal(t, int64(3121792), Capacity(3))
	require.Equal(t, int64(90531968), Capacity(4))
}

func TestMinLevel(t *testing.T) {
	cases := []struct {
		n     int32
		level int32
	}{
		{0, 1},
		{1, 1},
		{3712, 1},
		{3713, 2},
		{107648, 2},
		{107649, 3},
		{3121792, 3},
		{3121793, 4},
		{90531968, 4},
	}
	for _, c := range cases {
		level, err := minLevel(c.n)
		require.NoError(t, err, "n=%d", c.n)
		require.Equal(t, c.level, level, "n=%d", c.n)
	}

	_, err := minLevel(90531969)
	require.ErrorIs(t, err, errmsg.FileTooLarge)
}

func TestAllocate(t *testing.T) {
	cases := []struct {
		n       int32
		level   int32
		sectors int32
	}{
		{0, 1, 0},
		{1, 1, 1},
		{100, 1, 1},
		{128, 1, 1},
		{129, 1, 2},
		{3712, 1, 29},
		{3713, 2, 32},
		{5000, 2, 42},
		{107648, 2, 870},
		{107649, 3, 874},
	}
	for _, c := range cases {
		d := newTestDisk(t)
		bm := bitmap.New(constant.NumSectors)
		e := New()
		require.NoError(t, e.Allocate(d, bm, c.n), "n=%d", c.n)
		require.Equal(t, c.n, e.Length(), "n=%d", c.n)
		require.Equal(t, c.level, e.Level(), "n=%d", c.n)
		require.Equal(t, c.sectors, e.Sectors(), "n=%d", c.n)
		require.Equal(t, constant.NumSectors-int(c.sectors), bm.NumClear(), "n=%d", c.n)
	}
}

func TestAllocatePacksLeftToRight(t *testing.T) {
	d := newTestDisk(t)
	bm := bitmap.New(constant.NumSectors)
	e := New()
	require.NoError(t, e.Allocate(d, bm, 5000))

	// first subtree saturates before the second is touched: record 0,
	// data 1..29, record 30, data 31..41
	require.Equal(t, int32(0), e.slots[0])
	require.Equal(t, int32(30), e.slots[1])
	for _, c := range []struct{ off, sn int32 }{
		{0, 1},
		{127, 1},
		{128, 2},
		{3711, 29},
		{3712, 31},
		{4999, 41},
	} {
		sn, err := e.ByteToSector(d, c.off)
		require.NoError(t, err)
		require.Equal(t, c.sn, sn, "off=%d", c.off)
	}
	for sn := int32(0); sn < 42; sn++ {
		require.True(t, bm.Test(sn))
	}
	require.False(t, bm.Test(42))

	_, err := e.ByteToSector(d, 5000)
	require.ErrorIs(t, err, errmsg.OffsetOutOfRange)
	_, err = e.ByteToSector(d, -1)
	require.ErrorIs(t, err, errmsg.OffsetOutOfRange)
}

func TestAllocateExhausted(t *testing.T) {
	d := newTestDisk(t)
	bm := bitmap.New(64)
	e := New()
	err := e.Allocate(d, bm, 20000)
	require.ErrorIs(t, err, errmsg.NoFreeSector)
	require.Equal(t, 64, bm.NumClear())
}

type flakyDisk struct {
	disk.Disk
	writes int
	failAt int
}

func (d *flakyDisk) WriteSector(sn int32, buf []byte) error {
	if d.writes++; d.writes >= d.failAt {
		return errmsg.WriteFailed
	}
	return d.Disk.WriteSector(sn, buf)
}

func TestAllocateWriteFailure(t *testing.T) {
	d := &flakyDisk{Disk: newTestDisk(t), failAt: 2}
	bm := bitmap.New(constant.NumSectors)
	e := New()
	err := e.Allocate(d, bm, 3713)
	require.ErrorIs(t, err, errmsg.WriteFailed)
	require.Equal(t, constant.NumSectors, bm.NumClear())
}

func TestDeallocate(t *testing.T) {
	for _, n := range []int32{0, 1, 127, 128, 129, 3712, 3713, 5000, 20000, 107648} {
		d := newTestDisk(t)
		bm := bitmap.New(constant.NumSectors)
		e := New()
		require.NoError(t, e.Allocate(d, bm, n), "n=%d", n)
		require.NoError(t, e.Deallocate(d, bm), "n=%d", n)
		require.Equal(t, constant.NumSectors, bm.NumClear(), "n=%d", n)
	}
}

func TestWriteBackFetch(t *testing.T) {
	d := newTestDisk(t)
	bm := bitmap.New(constant.NumSectors)
	e := New()
	require.NoError(t, e.Allocate(d, bm, 5000))
	require.NoError(t, e.WriteBack(d, 999))

	got, err := Fetch(d, 999)
	require.NoError(t, err)
	require.Equal(t, e.Length(), got.Length())
	require.Equal(t, e.Sectors(), got.Sectors())
	require.Equal(t, e.Level(), got.Level())
	want, err := e.ByteToSector(d, 4999)
	require.NoError(t, err)
	sn, err := got.ByteToSector(d, 4999)
	require.NoError(t, err)
	require.Equal(t, want, sn)
}

func TestZeroLength(t *testing.T) {
	d := newTestDisk(t)
	bm := bitmap.New(constant.NumSectors)
	e := New()
	require.NoError(t, e.Allocate(d, bm, 0))
	require.Equal(t, int32(1), e.Level())
	require.Equal(t, int32(0), e.Sectors())
	require.Equal(t, constant.NumSectors, bm.NumClear())

	_, err := e.ByteToSector(d, 0)
	require.ErrorIs(t, err, errmsg.OffsetOutOfRange)
	require.NoError(t, e.Deallocate(d, bm))
	require.Equal(t, constant.NumSectors, bm.NumClear())
}

func TestBadSize(t *testing.T) {
	d := newTestDisk(t)
	bm := bitmap.New(constant.NumSectors)
	require.ErrorIs(t, New().Allocate(d, bm, -1), errmsg.BadSize)
	require.Equal(t, constant.NumSectors, bm.NumClear())
}
