package commands

import "github.com/ex11-team/simplesh/core/vos"

// Ln creates a hard link at args[2] to args[1].
func Ln(virtOS vos.VOS, args []string) int {
	if err := virtOS.Link(args[1], args[2]); err != nil {
		return reportErr(virtOS, "ln", err)
	}
	return 0
}
