package commands

import (
	"fmt"
	"strings"

	"github.com/ex11-team/simplesh/core/vos"
	"github.com/spf13/afero"
)

// Ls lists the entries of a directory, "." by default, on one line.
// The "." and ".." entries are never listed.
func Ls(virtOS vos.VOS, args []string) int {
	directory := "."
	if len(args) > 1 {
		directory = args[1]
	}

	// ReadDir sorts by name and never returns "." or "..".
	entries, err := afero.ReadDir(virtOS, directory)
	if err != nil {
		return reportErr(virtOS, "ls", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, Dircolor(entry).Sprint(entry.Name()))
	}
	fmt.Fprintln(virtOS.Stdout(), strings.Join(names, "  "))

	return 0
}
