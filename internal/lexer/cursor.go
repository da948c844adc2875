package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"cadl/internal/source"
)

// Cursor tracks a byte position within one source file.
type Cursor struct {
	File  *source.File
	Off   uint32
	limit uint32
}

// NewCursor creates a cursor at the start of file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, limit: limit}
}

// EOF reports whether the cursor is at or past the end of the file.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump advances one byte and returns it, or 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte when it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark remembers a position so a Span can be taken later.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the span from a mark to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
