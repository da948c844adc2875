package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a source file was obtained.
	FileFlags uint8
)

// NoFileID marks a span without a real file, e.g. a diagnostic with no
// source target. Valid IDs start at 1.
const NoFileID FileID = 0

const (
	// FileVirtual indicates the file was added from memory (test, stdin, host).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
// Positions are byte offsets into Content; LineStarts holds the offset of
// the first byte of every line so spans can be decoded to line/column.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineStarts []uint32
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol is a human-readable position in a source file, both 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (f *File) Text() string { return string(f.Content) }
