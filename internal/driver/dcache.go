package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cadl/internal/diag"
	"cadl/internal/source"
)

// Increment when the payload format changes; stale entries are ignored.
const diskCacheSchemaVersion uint16 = 1

// Digest is the sha256 content hash a cache entry is keyed by.
type Digest = [32]byte

// DiskCache stores per-file parse diagnostics keyed by content hash, so
// the parse subcommand skips re-parsing unchanged files. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the serialized cache entry.
type DiskPayload struct {
	Schema uint16
	Path   string
	Diags  []CachedDiag
}

// CachedDiag is one diagnostic with its span reduced to offsets; the
// file ID is reassigned on restore.
type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// OpenDiskCache initializes the cache at the standard location
// ($XDG_CACHE_HOME or ~/.cache) under app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "parse", hex.EncodeToString(key[:])+".mp")
}

// Lookup returns the payload for key, if present and current.
func (c *DiskCache) Lookup(key Digest) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	return &payload, true
}

// Store writes a payload under key, atomically via rename.
func (c *DiskCache) Store(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func newPayload(path string, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion, Path: path}
	for _, d := range bag.Items() {
		payload.Diags = append(payload.Diags, CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return payload
}

// restore replays cached diagnostics into bag against the freshly loaded
// file.
func (p *DiskPayload) restore(bag *diag.Bag, file source.FileID) {
	for _, cd := range p.Diags {
		sp := source.Span{Start: cd.Start, End: cd.End}
		if cd.Start != cd.End || cd.Start != 0 {
			sp.File = file
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  sp,
		})
	}
}
