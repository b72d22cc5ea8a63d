package cache

import (
	"path/filepath"
	"testing"

	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/stretchr/testify/require"
)

func testSector(v byte) []byte {
	buf := make([]byte, constant.SectorSize)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestWriteThrough(t *testing.T) {
	d, err := disk.New(filepath.Join(t.TempDir(), "DISK"), false)
	require.NoError(t, err)
	defer d.Close()
	c := New(MinCacheSize, d)

	require.NoError(t, c.WriteSector(3, testSector(0xAB)))

	// the device must already hold the data, not just the cache
	out := make([]byte, constant.SectorSize)
	require.NoError(t, d.ReadSector(3, out))
	require.Equal(t, testSector(0xAB), out)
}

func TestReadHit(t *testing.T) {
	d, err := disk.New(filepath.Join(t.TempDir(), "DISK"), false)
	require.NoError(t, err)
	defer d.Close()
	c := New(MinCacheSize, d)

	require.NoError(t, c.WriteSector(7, testSector(0x11)))
	out := make([]byte, constant.SectorSize)
	require.NoError(t, c.ReadSector(7, out))
	require.Equal(t, testSector(0x11), out)

	// overwrite and read again through the cache
	require.NoError(t, c.WriteSector(7, testSector(0x22)))
	require.NoError(t, c.ReadSector(7, out))
	require.Equal(t, testSector(0x22), out)
}

func TestEviction(t *testing.T) {
	d, err := disk.New(filepath.Join(t.TempDir(), "DISK"), false)
	require.NoError(t, err)
	defer d.Close()
	c := New(MinCacheSize, d)

	for sn := int32(0); sn < 3*MinCacheSize; sn++ {
		require.NoError(t, c.WriteSector(sn, testSector(byte(sn))))
	}
	require.LessOrEqual(t, c.lru.Len(), MinCacheSize)

	// evicted sectors still read back correctly from the device
	out := make([]byte, constant.SectorSize)
	for sn := int32(0); sn < 3*MinCacheSize; sn++ {
		require.NoError(t, c.ReadSector(sn, out))
		require.Equal(t, testSector(byte(sn)), out)
	}
}

func TestLimitFloor(t *testing.T) {
	d, err := disk.New(filepath.Join(t.TempDir(), "DISK"), false)
	require.NoError(t, err)
	defer d.Close()
	c := New(0, d)
	require.Equal(t, MinCacheSize, c.limit)
	require.Equal(t, int32(constant.NumSectors), c.Sectors())
}
