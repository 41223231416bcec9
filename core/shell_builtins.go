package core

import (
	"fmt"

	"github.com/ex11-team/simplesh/commands"
)

// ShellBuiltin is a builtin that needs the interpreter's state.
type ShellBuiltin struct {
	Usage string
	Main  func(s *Shell, args []string) int
}

// ShellBuiltins holds the builtins that act on the interpreter itself.
var ShellBuiltins map[string]ShellBuiltin

// shellBuiltinOrder is the order help lists them in, exit first.
var shellBuiltinOrder = []string{"exit", "help", "history"}

// Exit leaves the interpreter.
func Exit(s *Shell, args []string) int {
	fmt.Fprintln(s.VirtualOS.Stdout(), s.Config.Farewell)
	s.exiting = true
	return 0
}

// Help lists the builtins.
func Help(s *Shell, args []string) int {
	cmd := &commands.SimpleCommand{
		Use:   "help",
		Short: "List the commands built into the interpreter.",
	}

	return cmd.Run(s.VirtualOS, args, func() int {
		w := s.VirtualOS.Stdout()
		fmt.Fprintln(w, "These commands are built in, anything else is run as a program.")
		fmt.Fprintln(w, "End a program's line with & to run it in the background.")
		fmt.Fprintln(w)

		fmt.Fprintf(w, "  %s\n", ShellBuiltins["exit"].Usage)
		for _, builtin := range s.Builtins.List() {
			fmt.Fprintf(w, "  %s\n", builtin.Usage)
		}
		for _, name := range shellBuiltinOrder[1:] {
			fmt.Fprintf(w, "  %s\n", ShellBuiltins[name].Usage)
		}
		return 0
	})
}

// History shows or clears the line history.
func History(s *Shell, args []string) int {
	cmd := &commands.SimpleCommand{
		Use:   "history [-c]",
		Short: "Display the history list with line numbers.",
	}
	clear := cmd.Flags().Bool('c', "clear the history by deleting all entries")

	return cmd.Run(s.VirtualOS, args, func() int {
		if *clear {
			s.ClearHistory()
			return 0
		}

		for i, line := range s.History() {
			fmt.Fprintf(s.VirtualOS.Stdout(), "%5d  %s\n", i+1, line)
		}
		return 0
	})
}

func init() {
	ShellBuiltins = map[string]ShellBuiltin{
		"exit":    {Usage: "exit", Main: Exit},
		"help":    {Usage: "help", Main: Help},
		"history": {Usage: "history [-c]", Main: History},
	}
}
