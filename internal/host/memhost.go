package host

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// MemHost is an in-memory Host for tests and embedding. Paths are slash
// separated and treated as absolute as given.
type MemHost struct {
	files    map[string]string
	external map[string]map[string]any
	links    map[string]string
	libDirs  []string
	written  map[string][]byte
	logs     []LogEntry
}

func NewMemHost() *MemHost {
	return &MemHost{
		files:    make(map[string]string),
		external: make(map[string]map[string]any),
		links:    make(map[string]string),
		written:  make(map[string][]byte),
	}
}

// AddFile registers a source file under path.
func (h *MemHost) AddFile(p, text string) *MemHost {
	h.files[path.Clean(p)] = text
	return h
}

// AddExternalModule registers a decorator module's exports under path.
func (h *MemHost) AddExternalModule(p string, exports map[string]any) *MemHost {
	h.external[path.Clean(p)] = exports
	return h
}

// AddLink makes from resolve to to through Realpath.
func (h *MemHost) AddLink(from, to string) *MemHost {
	h.links[path.Clean(from)] = path.Clean(to)
	return h
}

// AddLibDir appends a standard-library search path.
func (h *MemHost) AddLibDir(dir string) *MemHost {
	h.libDirs = append(h.libDirs, path.Clean(dir))
	return h
}

// Written returns the content written under path by an emitter.
func (h *MemHost) Written(p string) ([]byte, bool) {
	b, ok := h.written[path.Clean(p)]
	return b, ok
}

// Logs returns every entry received so far.
func (h *MemHost) Logs() []LogEntry { return h.logs }

func (h *MemHost) ReadFile(ctx context.Context, p string) (SourceText, error) {
	if err := ctx.Err(); err != nil {
		return SourceText{}, err
	}
	p = path.Clean(p)
	if text, ok := h.files[p]; ok {
		return SourceText{Text: text, Path: p}, nil
	}
	return SourceText{}, fmt.Errorf("%w: %s", ErrNotFound, p)
}

func (h *MemHost) Stat(ctx context.Context, p string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	p = path.Clean(p)
	if _, ok := h.files[p]; ok {
		return FileInfo{IsFile: true}, nil
	}
	if _, ok := h.external[p]; ok {
		return FileInfo{IsFile: true}, nil
	}
	prefix := p + "/"
	for f := range h.files {
		if strings.HasPrefix(f, prefix) {
			return FileInfo{IsDirectory: true}, nil
		}
	}
	for f := range h.external {
		if strings.HasPrefix(f, prefix) {
			return FileInfo{IsDirectory: true}, nil
		}
	}
	return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, p)
}

func (h *MemHost) Realpath(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p = path.Clean(p)
	if to, ok := h.links[p]; ok {
		return to, nil
	}
	return p, nil
}

func (h *MemHost) GetExternalModuleExports(ctx context.Context, p string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = path.Clean(p)
	if exports, ok := h.external[p]; ok {
		return exports, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
}

func (h *MemHost) GetLibDirs() []string { return h.libDirs }

func (h *MemHost) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.written[path.Clean(p)] = content
	return nil
}

func (h *MemHost) LogSink() LogSink { return memSink{h} }

func (h *MemHost) ResolveAbsolutePath(p string) (string, error) {
	if path.IsAbs(p) {
		return path.Clean(p), nil
	}
	return path.Clean("/" + p), nil
}

type memSink struct{ h *MemHost }

func (s memSink) Log(e LogEntry) { s.h.logs = append(s.h.logs, e) }
