package vos

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostFs_Link(t *testing.T) {
	dir := t.TempDir()
	hostFs := NewHostFs()

	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, afero.WriteFile(hostFs, target, []byte("one"), 0644))

	require.NoError(t, hostFs.Link(target, link))

	// Writes through one name are visible through the other.
	require.NoError(t, afero.WriteFile(hostFs, link, []byte("two"), 0644))
	got, err := afero.ReadFile(hostFs, target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	targetInfo, err := os.Stat(target)
	require.NoError(t, err)
	linkInfo, err := os.Stat(link)
	require.NoError(t, err)
	assert.True(t, os.SameFile(targetInfo, linkInfo))
}

func TestHostFs_LinkExisting(t *testing.T) {
	dir := t.TempDir()
	hostFs := NewHostFs()

	target := filepath.Join(dir, "target")
	require.NoError(t, afero.WriteFile(hostFs, target, nil, 0644))

	err := hostFs.Link(target, target)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestLstat(t *testing.T) {
	dir := t.TempDir()
	hostFs := NewHostFs()

	target := filepath.Join(dir, "dir")
	link := filepath.Join(dir, "symlink")
	require.NoError(t, hostFs.Mkdir(target, 0755))
	require.NoError(t, os.Symlink(target, link))

	t.Run("host does not follow links", func(t *testing.T) {
		fi, err := Lstat(hostFs, link)
		require.NoError(t, err)
		assert.NotZero(t, fi.Mode()&fs.ModeSymlink)
		assert.False(t, fi.IsDir())
	})

	t.Run("falls back to stat", func(t *testing.T) {
		memFs := afero.NewMemMapFs()
		require.NoError(t, memFs.Mkdir("/d", 0755))

		fi, err := Lstat(afero.NewReadOnlyFs(memFs), "/d")
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Lstat(hostFs, filepath.Join(dir, "missing"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}
