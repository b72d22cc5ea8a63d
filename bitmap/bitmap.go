package bitmap

import (
	"fmt"
	"io"
	"math/bits"
)

func New(nbits int) *bitmap {
	return &bitmap{nbits: nbits, data: make([]byte, (nbits+7)/8)}
}

// Fetch rebuilds a bitmap from its backing file. Callers fetch a fresh
// copy at the start of an operation and write back only on success, so
// a failed operation leaves the persistent state untouched.
func Fetch(f io.ReaderAt, nbits int) (*bitmap, error) {
	b := New(nbits)
	if _, err := f.ReadAt(b.data, 0); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *bitmap) Test(sn int32) bool {
	return b.data[sn/8]&(1<<uint(sn%8)) != 0
}

func (b *bitmap) Mark(sn int32) {
	b.data[sn/8] |= 1 << uint(sn%8)
}

// Clear releases a bit. Clearing a bit that is already clear means the
// allocation bookkeeping is broken, which is not recoverable.
func (b *bitmap) Clear(sn int32) {
	if !b.Test(sn) {
		panic(fmt.Sprintf("clear of free sector %d", sn))
	}
	b.data[sn/8] &^= 1 << uint(sn%8)
}

// FindAndSet claims the lowest clear bit, or returns -1 when every bit
// is set.
func (b *bitmap) FindAndSet() int32 {
	for i, v := range b.data {
		if v == 0xFF { // quick path
			continue
		}
		for j := 0; j < 8; j++ {
			if sn := int32(i*8 + j); v&(1<<uint(j)) == 0 && int(sn) < b.nbits {
				b.Mark(sn)
				return sn
			}
		}
	}
	return -1
}

func (b *bitmap) NumClear() int {
	cnt := 0
	for i := 0; i+8 <= b.nbits; i += 8 {
		cnt += 8 - bits.OnesCount8(b.data[i/8])
	}
	for sn := b.nbits &^ 7; sn < b.nbits; sn++ {
		if !b.Test(int32(sn)) {
			cnt++
		}
	}
	return cnt
}

func (b *bitmap) WriteBack(f io.WriterAt) error {
	_, err := f.WriteAt(b.data, 0)
	return err
}
