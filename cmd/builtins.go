package cmd

import (
	"fmt"

	"github.com/ex11-team/simplesh/commands"
	"github.com/ex11-team/simplesh/core"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands built into the interpreter.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "Operands", "Usage"})
		table.SetBorder(true)
		table.SetAutoWrapText(false)
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

		table.Append([]string{"exit", "0", core.ShellBuiltins["exit"].Usage})
		for _, builtin := range commands.AllBuiltins.List() {
			table.Append([]string{builtin.Name, fmt.Sprint(builtin.Args), builtin.Usage})
		}
		for _, name := range []string{"help", "history"} {
			table.Append([]string{name, "0", core.ShellBuiltins[name].Usage})
		}

		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
