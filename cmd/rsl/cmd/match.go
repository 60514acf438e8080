package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/robogame/internal/store"
)

var matchOpts = playOptions{kind: store.KindMatch}

var matchCmd = &cobra.Command{
	Use:   "match A B",
	Short: "Lets two scripts fight a match",
	Long: `Runs two scripts against each other. Each tick both robots get to
perform one action; the match ends when a robot runs out of fuel, both
scripts finished or the tick limit is reached.

The robot with fuel left wins; if both or neither have fuel, more fuel
wins. A script that fails with an error loses against one that did not.

Watch options:
  --watch              terminal viewer (q quits and cancels the match)
  --spectate[=ADDR]    websocket feed, ADDR defaults to the configured one`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(cmd, args, matchOpts)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addPlayFlags(matchCmd, &matchOpts)
	matchCmd.Flags().BoolVar(&matchOpts.trace, "trace", false, "print evaluator events of both scripts")
}
