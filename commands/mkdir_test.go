package commands

import (
	"io/fs"
	"os"
	"testing"

	"github.com/ex11-team/simplesh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirRmdir(t *testing.T) {
	chdirTemp(t)

	cmd := vostest.Command(Mkdir, "mkdir", "x")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.DirExists(t, "x")

	cmd = vostest.Command(Rmdir, "rmdir", "x")
	out, err = cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.NoDirExists(t, "x")
}

func TestMkdir_existing(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.Mkdir("x", 0755))

	cmd := vostest.Command(Mkdir, "mkdir", "x")
	_, stderr, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "mkdir: mkdir x: file exists\n", string(stderr))
}

func TestMkdir_missingParent(t *testing.T) {
	chdirTemp(t)

	cmd := vostest.Command(Mkdir, "mkdir", "a/b")
	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.NoDirExists(t, "a")
}

func TestRmdir_notEmpty(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.Mkdir("x", 0755))
	require.NoError(t, os.WriteFile("x/keep.txt", []byte("keep"), 0644))

	cmd := vostest.Command(Rmdir, "rmdir", "x")
	_, stderr, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "rmdir: remove x: directory not empty\n", string(stderr))

	got, err := os.ReadFile("x/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))
}

func TestRmdir_file(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("file", nil, 0644))

	cmd := vostest.Command(Rmdir, "rmdir", "file")
	_, stderr, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "rmdir: rmdir file: not a directory\n", string(stderr))
	assert.FileExists(t, "file")
}

func TestRmdir_symlinkToDir(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.Mkdir("dir", 0755))
	require.NoError(t, os.Symlink("dir", "link"))

	cmd := vostest.Command(Rmdir, "rmdir", "link")
	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus)

	_, err := os.Lstat("link")
	assert.NoError(t, err)
	_, err = os.Stat("dir")
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}
