package sum

import (
	"hash/crc32"
)

var tbl = crc32.MakeTable(crc32.Castagnoli)

// Sum32 returns the Castagnoli CRC of data.
func Sum32(data []byte) uint32 {
	return crc32.Checksum(data, tbl)
}
