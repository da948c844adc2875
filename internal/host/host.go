// Package host abstracts all I/O the compiler core performs. The core
// never touches the filesystem directly; everything flows through a Host
// so tests and embedders can substitute their own.
package host

import (
	"context"
	"errors"
)

// SourceText is the result of reading one source file.
type SourceText struct {
	Text string
	Path string
}

// FileInfo is the subset of stat data the loader needs.
type FileInfo struct {
	IsFile      bool
	IsDirectory bool
}

// Classified I/O failures. Hosts wrap underlying errors with %w so the
// loader can map them to diagnostics.
var (
	ErrNotFound = errors.New("file not found")
	ErrIO       = errors.New("io error")
)

// LogLevel orders log entries by importance.
type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// LogEntry is one structured log record.
type LogEntry struct {
	Level   LogLevel
	Message string
	Fields  map[string]string
}

// LogSink receives structured log entries from the compiler.
type LogSink interface {
	Log(e LogEntry)
}

// Host is the I/O contract consumed by the loader and driver. Blocking
// calls take a context so a cancelled compilation aborts at the next
// suspension point.
type Host interface {
	// ReadFile returns the decoded text of a source file. Fails with
	// ErrNotFound or ErrIO.
	ReadFile(ctx context.Context, path string) (SourceText, error)
	// Stat reports whether path is a file or a directory.
	Stat(ctx context.Context, path string) (FileInfo, error)
	// Realpath resolves symlinks; otherwise identity-preserving.
	Realpath(ctx context.Context, path string) (string, error)
	// GetExternalModuleExports enumerates the exports of an external
	// decorator module. Keys starting with '$' are decorator handles; a
	// "namespace" entry is read as a dotted string.
	GetExternalModuleExports(ctx context.Context, path string) (map[string]any, error)
	// GetLibDirs lists the standard-library search paths.
	GetLibDirs() []string
	// WriteFile is used only by emitters.
	WriteFile(ctx context.Context, path string, content []byte) error
	// LogSink returns the destination for structured log entries.
	LogSink() LogSink
	// ResolveAbsolutePath makes path absolute against the host's working
	// directory.
	ResolveAbsolutePath(path string) (string, error)
}

// NopSink discards all log entries.
type NopSink struct{}

func (NopSink) Log(LogEntry) {}
