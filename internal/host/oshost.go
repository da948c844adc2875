package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
)

// OSHost is the production Host backed by the local filesystem. External
// modules are registered in-process: Go decorator libraries install their
// exports under the path an import statement names.
type OSHost struct {
	libDirs  []string
	sink     LogSink
	external map[string]map[string]any
}

// OSOption configures an OSHost.
type OSOption func(*OSHost)

// WithLibDirs sets the standard-library search paths.
func WithLibDirs(dirs ...string) OSOption {
	return func(h *OSHost) { h.libDirs = append(h.libDirs, dirs...) }
}

// WithLogSink replaces the default colored stderr sink.
func WithLogSink(s LogSink) OSOption {
	return func(h *OSHost) { h.sink = s }
}

// WithExternalModule registers a Go-native decorator library under an
// importable path.
func WithExternalModule(path string, exports map[string]any) OSOption {
	return func(h *OSHost) { h.external[path] = exports }
}

func NewOSHost(opts ...OSOption) *OSHost {
	h := &OSHost{
		sink:     &ColorSink{Out: os.Stderr},
		external: make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *OSHost) ReadFile(ctx context.Context, path string) (SourceText, error) {
	if err := ctx.Err(); err != nil {
		return SourceText{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SourceText{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return SourceText{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return SourceText{Text: string(data), Path: path}, nil
}

func (h *OSHost) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return FileInfo{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return FileInfo{IsFile: fi.Mode().IsRegular(), IsDirectory: fi.IsDir()}, nil
}

func (h *OSHost) Realpath(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	return resolved, nil
}

func (h *OSHost) GetExternalModuleExports(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if exports, ok := h.external[path]; ok {
		return exports, nil
	}
	return nil, fmt.Errorf("%w: no external module registered for %s", ErrNotFound, path)
}

func (h *OSHost) GetLibDirs() []string { return h.libDirs }

func (h *OSHost) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (h *OSHost) LogSink() LogSink { return h.sink }

func (h *OSHost) ResolveAbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

// ColorSink writes log entries to Out with per-level colors. Color output
// degrades to plain text when Out is not a terminal (fatih/color handles
// the detection).
type ColorSink struct {
	Out io.Writer
}

var levelColors = map[LogLevel]*color.Color{
	LevelDebug: color.New(color.Faint),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

func (s *ColorSink) Log(e LogEntry) {
	c, ok := levelColors[e.Level]
	if !ok {
		c = color.New()
	}
	fmt.Fprintf(s.Out, "%s %s", c.Sprintf("%-5s", e.Level), e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(s.Out, " %s=%s", c.Sprint(k), e.Fields[k])
		}
	}
	fmt.Fprintln(s.Out)
}
