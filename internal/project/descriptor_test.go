package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadl/internal/project"
)

func TestParseDescriptor(t *testing.T) {
	d, err := project.Parse("/pkg/cadl.toml", []byte(`
[package]
name = "widgets"
version = "1.2.0"
main = "lib/main.cadl"
`))
	require.NoError(t, err)
	assert.Equal(t, "widgets", d.Package.Name)
	assert.Equal(t, "1.2.0", d.Package.Version)
	assert.Equal(t, filepath.Join("/pkg", "lib", "main.cadl"), d.MainPath())
}

func TestMainDefaults(t *testing.T) {
	d, err := project.Parse("/pkg/cadl.toml", []byte("[package]\nname = \"x\"\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/pkg", "main.cadl"), d.MainPath())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := project.Parse("/pkg/cadl.toml", []byte("not toml ["))
	assert.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "cadl.toml"),
		[]byte("[package]\nname = \"up\"\nmain = \"entry.cadl\"\n"), 0o644))

	d, ok, err := project.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "up", d.Package.Name)
	assert.Equal(t, filepath.Join(root, "entry.cadl"), d.MainPath())
}

func TestFindMiss(t *testing.T) {
	_, ok, err := project.Find(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}
