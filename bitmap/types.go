package bitmap

import "io"

type Bitmap interface {
	Test(sn int32) bool
	Mark(sn int32)
	Clear(sn int32)
	FindAndSet() int32
	NumClear() int
	WriteBack(f io.WriterAt) error
}

type bitmap struct {
	nbits int
	data  []byte
}
