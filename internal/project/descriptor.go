// Package project reads the cadl.toml package descriptor. The descriptor
// names a package and designates its entry file, which is how directory
// imports and directory mains resolve to a concrete .cadl file.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DescriptorName is the file the loader looks for inside a directory.
const DescriptorName = "cadl.toml"

var ErrNoDescriptor = errors.New("no cadl.toml found")

// Descriptor is a parsed cadl.toml.
type Descriptor struct {
	Package Package `toml:"package"`

	// Path is where the descriptor was read from.
	Path string `toml:"-"`
}

// Package is the [package] table.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Main is the package's entry .cadl file, relative to the descriptor.
	Main string `toml:"main"`
}

// Parse decodes descriptor text read from path.
func Parse(path string, data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	d.Path = path
	return &d, nil
}

// MainPath resolves the entry file against the descriptor's directory.
// Packages without an explicit main default to main.cadl.
func (d *Descriptor) MainPath() string {
	main := d.Package.Main
	if main == "" {
		main = "main.cadl"
	}
	if filepath.IsAbs(main) {
		return main
	}
	return filepath.Join(filepath.Dir(d.Path), main)
}

// Load reads and parses the descriptor inside dir from the local
// filesystem. The loader goes through its Host instead; this is for the
// CLI.
func Load(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNoDescriptor, dir)
		}
		return nil, err
	}
	return Parse(path, data)
}

// Find walks from startDir toward the filesystem root looking for a
// descriptor, mirroring how the CLI locates the enclosing package.
func Find(startDir string) (*Descriptor, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, DescriptorName)
		if _, err := os.Stat(candidate); err == nil {
			d, err := Load(dir)
			if err != nil {
				return nil, false, err
			}
			return d, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, false, nil
		}
		dir = parent
	}
}
