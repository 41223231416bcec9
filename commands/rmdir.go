package commands

import (
	"io/fs"

	"github.com/ex11-team/simplesh/core/vos"
	"golang.org/x/sys/unix"
)

// Rmdir removes an empty directory.
func Rmdir(virtOS vos.VOS, args []string) int {
	dir := args[1]

	stat, err := vos.Lstat(virtOS, dir)
	if err != nil {
		return reportErr(virtOS, "rmdir", err)
	}

	// Remove would happily unlink a file, so refuse anything that isn't a
	// directory up front. Non-empty directories fail in Remove.
	if !stat.IsDir() {
		return reportErr(virtOS, "rmdir", &fs.PathError{Op: "rmdir", Path: dir, Err: unix.ENOTDIR})
	}

	if err := virtOS.Remove(dir); err != nil {
		return reportErr(virtOS, "rmdir", err)
	}
	return 0
}
