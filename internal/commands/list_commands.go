// internal/commands/list_commands.go
package apexreport

import (
	"io"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// commandEntry is one line of the command tree: its indented path and short
// description.
type commandEntry struct {
	Path        string
	Description string
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands as an indented two-column table.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		writeCommandTree(cmd.OutOrStdout(), collectCommands(rootCmd, "", 0))
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// collectCommands walks the command tree depth first. Generated help and
// completion commands are left out.
func collectCommands(cmd *cobra.Command, parent string, depth int) []commandEntry {
	name := cmd.Name()
	if name == "help" || name == "completion" {
		return nil
	}
	path := name
	if parent != "" {
		path = parent + " " + name
	}

	entries := []commandEntry{{Path: strings.Repeat("  ", depth) + path, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		entries = append(entries, collectCommands(sub, path, depth+1)...)
	}
	return entries
}

// writeCommandTree renders entries without borders so the indentation of the
// path column shows the nesting.
func writeCommandTree(out io.Writer, entries []commandEntry) {
	t := prettytable.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Commands and Subcommands")
	t.SetStyle(prettytable.StyleLight)
	t.Style().Options = prettytable.OptionsNoBordersAndSeparators
	for _, e := range entries {
		t.AppendRow(prettytable.Row{e.Path, e.Description})
	}
	t.Render()
}
