package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/robogame/internal/store"
)

var runOpts = playOptions{kind: store.KindRun}

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Runs a single script in the arena",
	Long: `Runs one script alone in the arena until it finishes, runs out of
fuel or reaches the tick limit, then prints the final arena, the robot's
counters and its variables.

With --trace every evaluator step is printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(cmd, args, runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addPlayFlags(runCmd, &runOpts)
	runCmd.Flags().BoolVar(&runOpts.trace, "trace", false, "print evaluator events")
}
