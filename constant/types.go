package constant

const (
	SectorSize = 128  // bytes per sector
	NumSectors = 1024 // 32 tracks * 32 sectors
)

// The extent records of the two system files live at fixed sectors so
// that an image needs no superblock.
const (
	FreeMapSector = 0
	RootDirSector = 1
)

const (
	NumDirect = (SectorSize - 3*4) / 4 // sector slots per extent record
	MaxLevel  = 4
)

const (
	FileNameMaxLen     = 9
	DirEntrySize       = FileNameMaxLen + 1 + 2 + 4 // name, flags, sector
	NumDirEntries      = 64
	DirectoryFileSize  = NumDirEntries * DirEntrySize
	AbsolutePathMaxLen = 255
)

const (
	FreeMapFileSize = NumSectors / 8
)
