package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// FileSet owns every source file of one compilation and maps spans back to
// line/column positions. Files are added once and retained for the lifetime
// of the program so diagnostics can always reference their text.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores already-normalized bytes, computes LineStarts and the content
// hash, and returns a fresh FileID. Re-adding a path produces a new ID; the
// index always points at the latest version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles + 1) // IDs are 1-based; NoFileID stays free
	fileSet.files = append(fileSet.files, File{
		ID:         id,
		Path:       path,
		Content:    content,
		LineStarts: buildLineStarts(content),
		Hash:       hash,
		Flags:      flags,
	})
	fileSet.index[path] = id
	return id
}

// AddNormalized strips a BOM and normalizes line endings before adding.
// Line endings may be \n, \r\n, or a lone \r; all become \n.
func (fileSet *FileSet) AddNormalized(path string, content []byte, flags FileFlags) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeLineEndings(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags)
}

// AddVirtual adds an in-memory file (test, stdin, generated).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.AddNormalized(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id-1]
}

// GetByPath returns the latest file registered under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[path]; ok {
		return &fileSet.files[id-1], true
	}
	return nil, false
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Files returns the backing slice. Callers must not modify it.
func (fileSet *FileSet) Files() []File { return fileSet.files }

// Resolve converts a span into start and end line/column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File-1]
	return toLineCol(f.LineStarts, span.Start), toLineCol(f.LineStarts, span.End)
}

// Line returns the text of the 1-based line, without its newline.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineStarts) {
		return ""
	}
	start := f.LineStarts[lineNum-1]
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if int(lineNum) < len(f.LineStarts) {
		end = f.LineStarts[lineNum]
	}
	for end > start && f.Content[end-1] == '\n' {
		end--
	}
	return string(f.Content[start:end])
}
