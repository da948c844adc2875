package source

import (
	"slices"
	"sort"
)

// normalizeLineEndings rewrites \r\n and lone \r to \n. Returns the new
// slice and whether anything changed.
func normalizeLineEndings(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, content[i])
	}
	return out, true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineStarts records the byte offset of the first character of every
// line. Line 1 always starts at offset 0, even for empty content.
func buildLineStarts(content []byte) []uint32 {
	out := make([]uint32, 1, 16)
	out[0] = 0
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)+1)
		}
	}
	return out
}

func toLineCol(lineStarts []uint32, off uint32) LineCol {
	// First line whose start is beyond off; the line containing off is the
	// one before it.
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > off
	})
	line := uint32(idx) // idx >= 1 because lineStarts[0] == 0
	return LineCol{Line: line, Col: off - lineStarts[line-1] + 1}
}
