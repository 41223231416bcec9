package commands

import (
	"io/fs"

	"github.com/ex11-team/simplesh/core/vos"
	"golang.org/x/sys/unix"
)

// Rm removes a single file. Directories are refused.
func Rm(virtOS vos.VOS, args []string) int {
	file := args[1]

	stat, err := vos.Lstat(virtOS, file)
	if err != nil {
		return reportErr(virtOS, "rm", err)
	}
	if stat.IsDir() {
		return reportErr(virtOS, "rm", &fs.PathError{Op: "remove", Path: file, Err: unix.EISDIR})
	}

	if err := virtOS.Remove(file); err != nil {
		return reportErr(virtOS, "rm", err)
	}
	return 0
}
