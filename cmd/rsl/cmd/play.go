package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/internal/game"
	"github.com/msto63/robogame/internal/spectator"
	"github.com/msto63/robogame/internal/store"
	"github.com/msto63/robogame/internal/tui/arenaview"
	"github.com/msto63/robogame/pkg/core/health"
)

// playOptions are the flags shared by run and match
type playOptions struct {
	kind     string
	scenario string
	record   bool
	watch    bool
	spectate string
	trace    bool
	maxTicks int
	tickRate float64
	seed     int64
}

// spectateFromConfig is the --spectate value used without an address
const spectateFromConfig = "config"

func addPlayFlags(cmd *cobra.Command, o *playOptions) {
	cmd.Flags().StringVar(&o.scenario, "scenario", "", "scenario file (YAML)")
	cmd.Flags().BoolVar(&o.record, "record", false, "record the run in the history")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "watch the arena in the terminal")
	cmd.Flags().StringVar(&o.spectate, "spectate", "", "serve a websocket spectator feed on ADDR")
	cmd.Flags().Lookup("spectate").NoOptDefVal = spectateFromConfig
	cmd.Flags().IntVar(&o.maxTicks, "max-ticks", 0, "end the match after N ticks (default from config)")
	cmd.Flags().Float64Var(&o.tickRate, "tick-rate", 0, "ticks per second, 0 is unthrottled (default from config)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "seed for barrel placement (default from config)")
}

// play runs the scripts at paths in one arena and reports the outcome
func play(cmd *cobra.Command, paths []string, o playOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()

	contestants, err := loadContestants(paths)
	if err != nil {
		return err
	}
	sc, err := loadScenario(o.scenario)
	if err != nil {
		return err
	}

	var trace func(rgexecutor.Event)
	if o.trace {
		trace = traceTo(cmd.ErrOrStderr())
	}
	engine, err := newEngine(trace)
	if err != nil {
		return err
	}

	runID := store.NewRunID()
	opts := game.OptionsFromConfig(appConfig, engine, appLogger)
	opts.Scenario = sc
	opts.RunID = runID
	if o.maxTicks > 0 {
		opts.MaxTicks = o.maxTicks
	}
	if cmd.Flags().Changed("tick-rate") {
		opts.TickRate = o.tickRate
	}
	if o.seed != 0 {
		opts.Rules.Seed = o.seed
	}

	// Run history
	var st *store.Store
	var rec *store.Recorder
	if o.record || appConfig.Store.Enabled {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		rec = st.Recorder(context.WithoutCancel(ctx), runID, 0)
		opts.Observers = append(opts.Observers, rec)
	}

	// Websocket spectators
	var hub *spectator.Hub
	if o.spectate != "" {
		addr := o.spectate
		if addr == spectateFromConfig {
			addr = appConfig.Spectator.Addr
		}
		serveCtx, stopServe := context.WithCancel(ctx)
		defer stopServe()

		hub = spectator.NewHub(appLogger)
		var checks []health.Checker
		if st != nil {
			checks = append(checks, health.PingCheck("store", st))
		}
		bound, _, err := spectator.Serve(serveCtx, addr, hub, checks...)
		if err != nil {
			return rgerror.Wrapf(err, "cannot serve spectators on %s", addr).
				WithCode(rgerror.CodeInvalidInput)
		}
		fmt.Fprintf(out, "Spectators: ws://%s/ws\n", bound)
		opts.Observers = append(opts.Observers, hub)
	}

	// Terminal viewer
	var feed *arenaview.Feed
	if o.watch {
		feed = arenaview.NewFeed(0)
		opts.Observers = append(opts.Observers, feed)
	}

	m, err := game.New(opts)
	if err != nil {
		return err
	}

	var outcome *game.Outcome
	var runErr error
	if feed != nil {
		outcome, runErr = watch(ctx, m, feed, contestants)
	} else {
		outcome, runErr = m.Run(ctx, contestants...)
	}

	if hub != nil && outcome != nil {
		hub.Finish(outcome.Winner, outcome.Reason, outcome.Ticks)
	}
	if st != nil {
		if err := saveRun(st, rec, o, sc, contestants, runID, outcome, runErr); err != nil {
			appLogger.WarnWithErr("failed to record run", err, rglog.Fields{"run": runID})
		} else {
			fmt.Fprintf(out, "Recorded run %s\n", runID)
		}
	}
	if runErr != nil {
		return runErr
	}

	printOutcome(out, outcome, o.kind == store.KindMatch)
	return nil
}

// watch runs the match while the viewer is open. Quitting the viewer
// cancels the match.
func watch(ctx context.Context, m *game.Match, feed *arenaview.Feed, contestants []game.Contestant) (*game.Outcome, error) {
	matchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		outcome *game.Outcome
		err     error
	}
	done := make(chan result, 1)

	go func() {
		outcome, err := m.Run(matchCtx, contestants...)
		res := arenaview.Result{Err: err}
		if outcome != nil {
			res.Winner, res.Reason, res.Ticks = outcome.Winner, outcome.Reason, outcome.Ticks
		}
		feed.Finish(res)
		done <- result{outcome, err}
	}()

	names := make([]string, len(contestants))
	for i, c := range contestants {
		names[i] = c.Name
	}
	if _, err := arenaview.Run(feed, strings.Join(names, " vs ")); err != nil {
		cancel()
		<-done
		return nil, err
	}

	cancel()
	res := <-done
	return res.outcome, res.err
}

func saveRun(st *store.Store, rec *store.Recorder, o playOptions, sc *arena.Scenario, contestants []game.Contestant,
	runID string, outcome *game.Outcome, runErr error) error {
	ctx := context.Background()
	if err := rec.Flush(); err != nil {
		return err
	}

	run := &store.Run{
		ID:      runID,
		Kind:    o.kind,
		Scripts: make(map[string]string, len(contestants)),
	}
	if sc != nil {
		run.Scenario = sc.Name
	}
	for _, c := range contestants {
		run.Robots = append(run.Robots, c.Name)
		run.Scripts[c.Name] = c.Source
	}
	if outcome != nil {
		run.Winner = outcome.Winner
		run.Reason = outcome.Reason
		run.Ticks = outcome.Ticks
		run.StartedAt = outcome.Started
		run.Duration = outcome.Duration
		for _, r := range outcome.Robots {
			if r.Err != nil {
				run.Error = r.Name + ": " + r.Err.Error()
				break
			}
		}
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return st.SaveRun(ctx, run)
}

func printOutcome(w io.Writer, outcome *game.Outcome, match bool) {
	fmt.Fprintln(w, outcome.Final.String())
	for _, r := range outcome.Robots {
		status := "stopped"
		switch {
		case r.Err != nil:
			status = "error: " + r.Err.Error()
		case r.Finished:
			status = "finished"
		}
		fmt.Fprintf(w, "%-12s fuel %-4d actions %-5d iterations %-6d %s\n",
			r.Name, r.Fuel, r.Actions, r.Iterations, status)
		if !match && len(r.Variables) > 0 {
			printVariables(w, r.Variables)
		}
	}

	fmt.Fprintf(w, "\nTicks: %d (%s) in %s\n", outcome.Ticks, outcome.Reason, outcome.Duration.Round(time.Microsecond))
	if match {
		if outcome.Winner == "" {
			fmt.Fprintln(w, "Result: draw")
		} else {
			fmt.Fprintf(w, "Winner: %s\n", outcome.Winner)
		}
	}
}

func printVariables(w io.Writer, vars map[string]int64) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %d\n", name, vars[name])
	}
}

// traceTo returns a trace hook printing events to w. Events of concurrent
// scripts are serialized.
func traceTo(w io.Writer) func(rgexecutor.Event) {
	var mu sync.Mutex
	return func(ev rgexecutor.Event) {
		mu.Lock()
		defer mu.Unlock()

		line := fmt.Sprintf("%-10s", ev.Kind)
		if ev.Op != "" {
			line += " " + ev.Op
		}
		switch ev.Kind {
		case rgexecutor.EventAssign:
			line += fmt.Sprintf(" = %d", ev.Value)
		case rgexecutor.EventIteration:
			line += fmt.Sprintf(" #%d", ev.Iteration)
		}
		if ev.Pos.IsValid() {
			line += " @ " + ev.Pos.String()
		}
		if ev.Err != nil {
			line += " error: " + ev.Err.Error()
		}
		fmt.Fprintln(w, line)
	}
}
