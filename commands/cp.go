package commands

import (
	"os"

	"github.com/ex11-team/simplesh/core/vos"
)

// Cp copies the bytes of one file to another, creating or truncating the
// destination.
func Cp(virtOS vos.VOS, args []string) int {
	src, err := virtOS.Open(args[1])
	if err != nil {
		return reportErr(virtOS, "cp", err)
	}
	defer src.Close()

	dst, err := virtOS.OpenFile(args[2], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return reportErr(virtOS, "cp", err)
	}

	_, copyErr := copyBuffered(dst, src)
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		return reportErr(virtOS, "cp", copyErr)
	case closeErr != nil:
		return reportErr(virtOS, "cp", closeErr)
	}
	return 0
}
