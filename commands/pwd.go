package commands

import (
	"fmt"

	"github.com/ex11-team/simplesh/core/vos"
)

// Pwd prints the absolute working directory.
func Pwd(virtOS vos.VOS, args []string) int {
	pwd, err := virtOS.Getwd()
	if err != nil {
		return reportErr(virtOS, "pwd", err)
	}

	fmt.Fprintln(virtOS.Stdout(), pwd)
	return 0
}
