package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/msto63/robogame/internal/store"
)

var (
	historyLimit     int
	historyKind      string
	historyRobot     string
	historySince     time.Duration
	historyEvents    bool
	historyScripts   bool
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Shows recorded runs and matches",
	Long: `Lists, shows and prunes the runs recorded with --record (or with
store.enabled in the configuration).`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Shows one run; a unique id prefix is enough",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes old runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
		c.Flags().StringVar(&historyKind, "kind", "", "only runs of this kind (run, match)")
		c.Flags().StringVar(&historyRobot, "robot", "", "only runs with this robot")
		c.Flags().DurationVar(&historySince, "since", 0, "only runs started within this duration")
	}
	historyShowCmd.Flags().BoolVar(&historyEvents, "events", false, "list the per-tick events")
	historyShowCmd.Flags().BoolVar(&historyScripts, "scripts", false, "print the scripts")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "delete runs older than this")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.Filter{Kind: historyKind, Robot: historyRobot, Limit: historyLimit}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}
	runs, err := st.ListRuns(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	renderRuns(out, runs)
	return nil
}

func renderRuns(w io.Writer, runs []*store.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Kind", "Started", "Robots", "Winner", "Reason", "Ticks"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, r := range runs {
		winner := r.Winner
		if winner == "" && r.Kind == store.KindMatch {
			winner = "draw"
		}
		if r.Error != "" {
			winner += " (error)"
		}
		table.Append([]string{
			shortID(r.ID),
			r.Kind,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strings.Join(r.Robots, " vs "),
			winner,
			r.Reason,
			strconv.Itoa(r.Ticks),
		})
	}
	table.Render()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Kind:     %s\n", run.Kind)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration)
	if run.Scenario != "" {
		fmt.Fprintf(out, "Scenario: %s\n", run.Scenario)
	}
	fmt.Fprintf(out, "Robots:   %s\n", strings.Join(run.Robots, ", "))
	if run.Winner != "" {
		fmt.Fprintf(out, "Winner:   %s\n", run.Winner)
	}
	fmt.Fprintf(out, "Reason:   %s after %d ticks\n", run.Reason, run.Ticks)
	if run.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", run.Error)
	}

	if historyScripts {
		for _, name := range run.Robots {
			fmt.Fprintf(out, "\n--- %s ---\n%s\n", name, strings.TrimRight(run.Scripts[name], "\n"))
		}
	}

	if historyEvents {
		events, err := st.Events(cmd.Context(), run.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		renderEvents(out, events)
	}
	return nil
}

func renderEvents(w io.Writer, events []store.Event) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tick", "Robot", "Action", "Pos", "Heading", "Fuel", "Shield"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, e := range events {
		shield := ""
		if e.Shield {
			shield = "on"
		}
		table.Append([]string{
			strconv.Itoa(e.Tick),
			e.Robot,
			e.Action,
			fmt.Sprintf("(%d,%d)", e.X, e.Y),
			e.Heading,
			strconv.Itoa(e.Fuel),
			shield,
		})
	}
	table.Render()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Prune(cmd.Context(), historyOlderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs older than %s.\n", n, historyOlderThan)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
