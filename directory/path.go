package directory

import (
	"strings"

	"github.com/infinivision/sectorfs/constant"
	"github.com/infinivision/sectorfs/disk"
	"github.com/infinivision/sectorfs/errmsg"
)

// ParsePath splits a slash-delimited absolute path into its name
// components. "/" is the root and parses to depth zero.
func ParsePath(text string) (*AbsolutePath, error) {
	if len(text) == 0 || text[0] != '/' || len(text) > constant.AbsolutePathMaxLen {
		return nil, errmsg.BadPath
	}
	if text == "/" {
		return &AbsolutePath{}, nil
	}
	names := strings.Split(text[1:], "/")
	for _, name := range names {
		if len(name) == 0 {
			return nil, errmsg.BadPath
		}
		if strings.IndexByte(name, 0) != -1 { // NUL pads the on-disk name field
			return nil, errmsg.BadPath
		}
		if len(name) > constant.FileNameMaxLen {
			return nil, errmsg.NameTooLong
		}
	}
	return &AbsolutePath{names: names}, nil
}

func (p *AbsolutePath) Depth() int {
	return len(p.names)
}

func (p *AbsolutePath) Name(depth int) string {
	return p.names[depth]
}

// Last returns the final component, the name an operation creates or
// removes.
func (p *AbsolutePath) Last() string {
	return p.names[len(p.names)-1]
}

// Sector resolves the path from the root table and returns the target's
// record sector and whether the target is a directory.
func (p *AbsolutePath) Sector(d disk.Disk, root *Directory, rootSector int32) (int32, bool, error) {
	if p.Depth() == 0 {
		return rootSector, true, nil
	}
	return root.FindPath(d, p, 0)
}

// UpperLevelSector resolves the directory holding the path's last
// component.
func (p *AbsolutePath) UpperLevelSector(d disk.Disk, root *Directory, rootSector int32) (int32, error) {
	if p.Depth() <= 1 {
		return rootSector, nil
	}
	sn, isDir, err := root.FindPath(d, &AbsolutePath{names: p.names[:len(p.names)-1]}, 0)
	if err != nil {
		return -1, err
	}
	if !isDir {
		return -1, errmsg.NotDirectory
	}
	return sn, nil
}
