package commands

import "github.com/ex11-team/simplesh/core/vos"

// Cat streams a file to standard output.
func Cat(virtOS vos.VOS, args []string) int {
	fd, err := virtOS.Open(args[1])
	if err != nil {
		return reportErr(virtOS, "cat", err)
	}
	defer fd.Close()

	if _, err := copyBuffered(virtOS.Stdout(), fd); err != nil {
		return reportErr(virtOS, "cat", err)
	}
	return 0
}
