package commands

import "github.com/ex11-team/simplesh/core/vos"

// Cd changes the interpreter's working directory.
func Cd(virtOS vos.VOS, args []string) int {
	if err := virtOS.Chdir(args[1]); err != nil {
		return reportErr(virtOS, "cd", err)
	}
	return 0
}
