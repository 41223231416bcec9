package vos

import (
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// VFS is the filesystem builtins operate on.
type VFS = afero.Fs

// Linker creates hard links, which afero has no interface for.
type Linker interface {
	// Link creates newname as a hard link to the oldname file.
	Link(oldname, newname string) error
}

// HostFs is the real filesystem rooted at the process working directory,
// with hard link support added.
type HostFs struct {
	afero.Fs
}

// NewHostFs creates a filesystem backed by the os package.
func NewHostFs() *HostFs {
	return &HostFs{Fs: afero.NewOsFs()}
}

var _ VFS = (*HostFs)(nil)
var _ Linker = (*HostFs)(nil)
var _ afero.Lstater = (*HostFs)(nil)

// Link implements Linker.Link.
func (h *HostFs) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

// LstatIfPossible implements afero.Lstater.
func (h *HostFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if lstater, ok := h.Fs.(afero.Lstater); ok {
		return lstater.LstatIfPossible(name)
	}
	fi, err := h.Fs.Stat(name)
	return fi, false, err
}

// Lstat returns information about the named file without following a
// trailing symlink when the filesystem supports it.
func Lstat(vfs VFS, name string) (fs.FileInfo, error) {
	if lstater, ok := vfs.(afero.Lstater); ok {
		fi, _, err := lstater.LstatIfPossible(name)
		return fi, err
	}
	return vfs.Stat(name)
}
