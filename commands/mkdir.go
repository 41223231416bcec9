package commands

import "github.com/ex11-team/simplesh/core/vos"

// Mkdir creates a single directory. The permissive mode is narrowed by the
// process umask.
func Mkdir(virtOS vos.VOS, args []string) int {
	if err := virtOS.Mkdir(args[1], 0777); err != nil {
		return reportErr(virtOS, "mkdir", err)
	}
	return 0
}
