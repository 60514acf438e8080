package cmd

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	rgast "github.com/msto63/robogame/foundation/script/ast"
)

var (
	inspectFormat bool
	inspectTree   bool
	inspectDump   bool
	inspectStats  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Shows the parsed form of a script",
	Long: `Parses a script and prints it in one or more forms:

  --format   canonical source code
  --tree     compact tree rendering
  --dump     full Go dump of the syntax tree
  --stats    statement, action, sensor and variable counts

Without flags the canonical source is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectFormat, "format", false, "print canonical source")
	inspectCmd.Flags().BoolVar(&inspectTree, "tree", false, "print the tree rendering")
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump the syntax tree")
	inspectCmd.Flags().BoolVar(&inspectStats, "stats", false, "print program statistics")
}

func runInspect(cmd *cobra.Command, args []string) error {
	src, err := readScript(args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	prog, err := engine.Parse(src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !inspectFormat && !inspectTree && !inspectDump && !inspectStats {
		inspectFormat = true
	}

	if inspectFormat {
		fmt.Fprint(out, rgast.Format(prog))
	}
	if inspectTree {
		fmt.Fprintln(out, prog.String())
	}
	if inspectDump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(out, prog)
	}
	if inspectStats {
		printStats(cmd, rgast.Collect(prog))
	}
	return nil
}

func printStats(cmd *cobra.Command, s rgast.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Statements:   %d\n", s.Statements)
	fmt.Fprintf(out, "Loops:        %d\n", s.Loops)
	fmt.Fprintf(out, "Conditionals: %d\n", s.Conditionals)
	fmt.Fprintf(out, "Assignments:  %d\n", s.Assignments)
	fmt.Fprintf(out, "Max depth:    %d\n", s.MaxDepth)
	fmt.Fprintf(out, "Variables:    %v\n", s.Variables)
	printCounts(cmd, "Actions", s.Actions)
	printCounts(cmd, "Sensors", s.Sensors)
}

func printCounts(cmd *cobra.Command, title string, counts map[string]int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	if len(counts) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-12s %d\n", k, counts[k])
	}
}
