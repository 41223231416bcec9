package commands

import "github.com/ex11-team/simplesh/core/vos"

// Mv atomically renames a file or directory.
func Mv(virtOS vos.VOS, args []string) int {
	if err := virtOS.Rename(args[1], args[2]); err != nil {
		return reportErr(virtOS, "mv", err)
	}
	return 0
}
