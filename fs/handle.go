package fs

import (
	"github.com/infinivision/sectorfs/errmsg"
)

// OpenFile resolves name and registers the handle in the open-file
// table. Each call gets its own id and seek position; the id stays
// valid until CloseFile.
func (f *fileSystem) OpenFile(name string) (FileID, error) {
	f.Lock()
	defer f.Unlock()
	fp, err := f.open(name)
	if err != nil {
		return 0, err
	}
	id := f.next
	f.next++
	f.files[id] = fp
	return id, nil
}

// ReadFile reads from the handle's seek position and advances it.
func (f *fileSystem) ReadFile(id FileID, p []byte) (int, error) {
	f.Lock()
	defer f.Unlock()
	fp, ok := f.files[id]
	if !ok {
		return 0, errmsg.InvalidHandle
	}
	return fp.Read(p)
}

// WriteFile writes at the handle's seek position and advances it.
func (f *fileSystem) WriteFile(id FileID, p []byte) (int, error) {
	f.Lock()
	defer f.Unlock()
	fp, ok := f.files[id]
	if !ok {
		return 0, errmsg.InvalidHandle
	}
	return fp.Write(p)
}

func (f *fileSystem) CloseFile(id FileID) error {
	f.Lock()
	defer f.Unlock()
	if _, ok := f.files[id]; !ok {
		return errmsg.InvalidHandle
	}
	delete(f.files, id)
	return nil
}
