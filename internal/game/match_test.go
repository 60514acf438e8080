package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/pkg/core/config"
)

func testOptions(sc *arena.Scenario) Options {
	rules := arena.DefaultRules()
	rules.Width, rules.Height = 8, 5
	rules.Barrels = 0
	return Options{
		Logger:      rglog.Discard(),
		Rules:       rules,
		Scenario:    sc,
		MaxTicks:    50,
		TickTimeout: time.Second,
	}
}

func runMatch(t *testing.T, opts Options, contestants ...Contestant) *Outcome {
	t.Helper()
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := m.Run(context.Background(), contestants...)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func TestMatch_SoloScriptFinishes(t *testing.T) {
	sc := &arena.Scenario{Robots: []arena.RobotStart{{X: 1, Y: 1, Heading: "east"}}}
	var ticks []int
	opts := testOptions(sc)
	opts.Observers = []Observer{ObserverFunc(func(s arena.Snapshot) { ticks = append(ticks, s.Tick) })}

	out := runMatch(t, opts, Contestant{Name: "solo", Source: "$n = 3; move($n);"})

	if out.Reason != ReasonFinished {
		t.Errorf("Reason = %q, want %q", out.Reason, ReasonFinished)
	}
	if out.Ticks != 3 || len(ticks) != 3 || ticks[2] != 3 {
		t.Errorf("Ticks = %d, observed %v", out.Ticks, ticks)
	}
	if out.Winner != "solo" {
		t.Errorf("Winner = %q", out.Winner)
	}

	r := out.Robots[0]
	if !r.Finished || r.Err != nil || r.Actions != 3 || r.Variables["$n"] != 3 {
		t.Errorf("robot result = %+v", r)
	}
	if pos := out.Final.Robots[0].Pos; pos != (arena.Point{X: 4, Y: 1}) {
		t.Errorf("final position = %v", pos)
	}
}

func TestMatch_MaxTicksDecidedByFuel(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxTicks = 5

	out := runMatch(t, opts,
		Contestant{Name: "runner", Source: "loop { move; }"},
		Contestant{Name: "turtle", Source: "loop { shieldOn; }"},
	)

	if out.Reason != ReasonMaxTicks || out.Ticks != 5 {
		t.Errorf("Reason = %q, Ticks = %d", out.Reason, out.Ticks)
	}
	if out.Robots[0].Fuel != 95 || out.Robots[1].Fuel != 90 {
		t.Errorf("fuel = %d/%d, want 95/90", out.Robots[0].Fuel, out.Robots[1].Fuel)
	}
	if out.Winner != "runner" {
		t.Errorf("Winner = %q, want runner", out.Winner)
	}
	for _, r := range out.Robots {
		if r.Finished || r.Err != nil {
			t.Errorf("%s: stopped scripts are neither finished nor failed: %+v", r.Name, r)
		}
	}
}

func TestMatch_RamUntilOutOfFuel(t *testing.T) {
	sc := &arena.Scenario{Robots: []arena.RobotStart{
		{X: 2, Y: 1, Heading: "east"},
		{X: 3, Y: 1, Heading: "west", Fuel: 30},
	}}

	out := runMatch(t, testOptions(sc),
		Contestant{Name: "bully", Source: "loop { move; }"},
		Contestant{Name: "victim", Source: "loop { wait; }"},
	)

	if out.Reason != ReasonOutOfFuel {
		t.Errorf("Reason = %q, want %q", out.Reason, ReasonOutOfFuel)
	}
	if out.Ticks != 2 {
		t.Errorf("Ticks = %d, want 2", out.Ticks)
	}
	if out.Winner != "bully" {
		t.Errorf("Winner = %q", out.Winner)
	}
	if out.Final.Robots[0].Rams != 2 {
		t.Errorf("rams = %d", out.Final.Robots[0].Rams)
	}
}

func TestMatch_ScriptErrorLoses(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxTicks = 3

	out := runMatch(t, opts,
		Contestant{Name: "broken", Source: "wait; $x = div(1, sub(2, 2));"},
		Contestant{Name: "steady", Source: "loop { wait; }"},
	)

	if rgerror.GetCode(out.Robots[0].Err) != rgerror.CodeDivisionByZero {
		t.Errorf("broken Err = %v", out.Robots[0].Err)
	}
	if out.Winner != "steady" {
		t.Errorf("Winner = %q, want steady", out.Winner)
	}
	if out.Reason != ReasonMaxTicks {
		t.Errorf("Reason = %q", out.Reason)
	}
}

func TestMatch_ComputeOnlyScriptLetsTicksPass(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxTicks = 3
	opts.TickTimeout = 5 * time.Millisecond

	out := runMatch(t, opts, Contestant{Name: "thinker", Source: "loop { $x = add($x, 1); }"})

	if out.Reason != ReasonMaxTicks || out.Ticks != 3 {
		t.Errorf("Reason = %q, Ticks = %d", out.Reason, out.Ticks)
	}
	if out.Robots[0].Iterations == 0 || out.Robots[0].Actions != 0 {
		t.Errorf("result = %+v", out.Robots[0])
	}
}

func TestMatch_TickRate(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxTicks = 5
	opts.TickRate = 200

	out := runMatch(t, opts, Contestant{Name: "a", Source: "loop { wait; }"})
	if out.Duration < 15*time.Millisecond {
		t.Errorf("Duration = %v, ticks must be paced", out.Duration)
	}
}

func TestMatch_Errors(t *testing.T) {
	m, err := New(testOptions(nil))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Run(context.Background()); !rgerror.HasCode(err, rgerror.CodeInvalidInput) {
		t.Errorf("Run() without contestants error = %v", err)
	}

	_, err = m.Run(context.Background(),
		Contestant{Name: "ok", Source: "wait;"},
		Contestant{Name: "typo", Source: "wiat;"},
	)
	if !rgerror.HasCode(err, rgerror.CodeScriptSyntax) {
		t.Fatalf("Run() error = %v, want syntax error", err)
	}
	var rgErr *rgerror.Error
	if errors.As(err, &rgErr) {
		if robot, _ := rgErr.Detail("robot"); robot != "typo" {
			t.Errorf("robot detail = %v", robot)
		}
	}

	_, err = m.Run(context.Background(),
		Contestant{Name: "same", Source: "wait;"},
		Contestant{Name: "same", Source: "wait;"},
	)
	if !rgerror.HasCode(err, rgerror.CodeInvalidArena) {
		t.Errorf("Run() with equal names error = %v", err)
	}

	if _, err := New(Options{Logger: rglog.Discard(), TickRate: -1}); err == nil {
		t.Error("New() must reject a negative tick rate")
	}
}

func TestMatch_Cancel(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxTicks = 1 << 30

	m, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = m.Run(ctx,
		Contestant{Name: "a", Source: "loop { wait; }"},
		Contestant{Name: "b", Source: "loop { turnL; }"},
	)
	if !rgerror.HasCode(err, rgerror.CodeTimeout) {
		t.Errorf("Run() error = %v, want %v", err, rgerror.CodeTimeout)
	}
}

func TestMatch_ConcurrentMatchesShareEngine(t *testing.T) {
	m, err := New(testOptions(nil))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	outcomes := make([]*Outcome, 4)
	for i := range outcomes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i], _ = m.Run(context.Background(),
				Contestant{Name: "a", Source: "$i = 0; while (lt($i, 4)) { move; $i = add($i, 1); }"},
				Contestant{Name: "b", Source: "turnL; turnL;"},
			)
		}()
	}
	wg.Wait()

	for i, out := range outcomes {
		if out == nil {
			t.Fatalf("match %d failed", i)
		}
		if out.Reason != ReasonFinished || out.Ticks != 4 {
			t.Errorf("match %d: Reason = %q, Ticks = %d", i, out.Reason, out.Ticks)
		}
		if out.Robots[0].Variables["$i"] != 4 {
			t.Errorf("match %d: $i = %d", i, out.Robots[0].Variables["$i"])
		}
	}
}

func TestDecide(t *testing.T) {
	failed := errors.New("boom")
	tests := []struct {
		name   string
		robots []RobotResult
		want   string
	}{
		{"solo alive", []RobotResult{{Name: "a", Fuel: 3}}, "a"},
		{"solo empty", []RobotResult{{Name: "a", Fuel: 0}}, ""},
		{"solo failed", []RobotResult{{Name: "a", Fuel: 9, Err: failed}}, ""},
		{"more fuel wins", []RobotResult{{Name: "a", Fuel: 3}, {Name: "b", Fuel: 7}}, "b"},
		{"tie", []RobotResult{{Name: "a", Fuel: 5}, {Name: "b", Fuel: 5}}, ""},
		{"failure loses despite fuel", []RobotResult{{Name: "a", Fuel: 90, Err: failed}, {Name: "b", Fuel: 1}}, "b"},
		{"empty loses", []RobotResult{{Name: "a", Fuel: 0}, {Name: "b", Fuel: 0, Err: failed}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decide(tt.robots); got != tt.want {
				t.Errorf("decide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Arena.Width = 9
	cfg.Arena.MaxTicks = 77
	cfg.Arena.Seed = 42

	opts := OptionsFromConfig(cfg, nil, rglog.Discard())
	if opts.Rules.Width != 9 || opts.Rules.Seed != 42 || opts.MaxTicks != 77 {
		t.Errorf("options = %+v", opts)
	}
	if opts.TickTimeout != cfg.Arena.TickTimeout.Duration {
		t.Errorf("TickTimeout = %v", opts.TickTimeout)
	}

	cfg.Arena.Seed = 0
	if opts := OptionsFromConfig(cfg, nil, nil); opts.Rules.Seed == 0 {
		t.Error("zero seed was not replaced")
	}
}
