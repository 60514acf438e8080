package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	rgerror "github.com/msto63/robogame/foundation/core/error"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Checks scripts for syntax errors",
	Long: `Parses each script and validates its syntax tree without running it.

Exits with a non-zero status when any script is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		src, err := readScript(path)
		if err != nil {
			fmt.Fprintf(out, "[-] %s\n    %v\n", path, err)
			failed++
			continue
		}

		stats, err := engine.Check(src)
		if err != nil {
			fmt.Fprintf(out, "[-] %s\n    %v\n", path, err)
			failed++
			continue
		}

		actions := 0
		for _, n := range stats.Actions {
			actions += n
		}
		fmt.Fprintf(out, "[+] %s (%d statements, %d actions, %d variables)\n",
			path, stats.Statements, actions, len(stats.Variables))
	}

	if failed > 0 {
		return rgerror.Newf("%d of %d scripts failed the check", failed, len(args)).
			WithCode(rgerror.CodeScriptSyntax)
	}
	return nil
}
