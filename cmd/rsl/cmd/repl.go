package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/msto63/robogame/foundation/script"
	rgast "github.com/msto63/robogame/foundation/script/ast"
	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
	rgparser "github.com/msto63/robogame/foundation/script/parser"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/internal/game"
)

var replScenario string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive script session",
	Long: `Starts an interactive session with one robot in the arena. Every
input is parsed and run immediately; variables survive between inputs.
Input that ends inside a block continues on the next line.

Commands:
  :vars     show variables
  :arena    show the arena
  :tree     show the tree of the last input
  :reset    new arena, no variables
  :help     this text
  :quit     leave (Ctrl+D works too)`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replScenario, "scenario", "", "scenario file (YAML)")
}

var replKeywords = []string{
	"move", "wait", "turnL", "turnR", "turnAround", "takeFuel", "shieldOn", "shieldOff",
	"loop", "while", "if", "elif", "else",
	"fuelLeft", "oppLR", "oppFB", "numBarrels", "barrelLR", "barrelFB", "wallDist",
	"add", "sub", "mul", "div", "lt", "gt", "eq", "and", "or", "not",
	":vars", ":arena", ":tree", ":reset", ":help", ":quit",
}

func runRepl(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	sc, err := loadScenario(replScenario)
	if err != nil {
		return err
	}
	rules := game.OptionsFromConfig(appConfig, engine, appLogger).Rules

	out := cmd.OutOrStdout()
	session, err := newReplSession(engine, rules, sc, out)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		start := strings.LastIndexAny(input, " \t(;{") + 1
		word := input[start:]
		var matches []string
		for _, kw := range replKeywords {
			if word != "" && strings.HasPrefix(kw, word) {
				matches = append(matches, input[:start]+kw)
			}
		}
		return matches
	})

	historyPath := filepath.Join(appConfig.General.DataDir, "repl_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "rsl repl - robot %q in a %dx%d arena, :help for commands\n",
		replRobot, session.world.Rules().Width, session.world.Rules().Height)

	for {
		prompt := "rsl> "
		if session.pending() {
			prompt = "...> "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				session.discard()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		quit := session.feed(ctx, input)
		stop()
		if quit {
			return nil
		}
	}
}

const replRobot = "repl"

// replSession evaluates input against one robot and a persistent
// environment.
type replSession struct {
	engine *script.Engine
	rules  arena.Rules
	sc     *arena.Scenario
	out    io.Writer

	world *arena.World
	robot *arena.DirectRobot
	env   *rgexecutor.Environment
	last  *rgast.Sequence
	buf   strings.Builder
}

func newReplSession(engine *script.Engine, rules arena.Rules, sc *arena.Scenario, out io.Writer) (*replSession, error) {
	s := &replSession{engine: engine, rules: rules, sc: sc, out: out}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *replSession) reset() error {
	world, err := arena.New(s.rules, s.sc, replRobot)
	if err != nil {
		return err
	}
	s.world = world
	s.robot = world.Direct(0)
	s.env = rgexecutor.NewEnvironment()
	s.last = nil
	s.buf.Reset()
	return nil
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) discard() { s.buf.Reset() }

// feed handles one input line and reports whether the session should end
func (s *replSession) feed(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)

	if !s.pending() && strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" && !s.pending() {
		return false
	}

	s.buf.WriteString(input)
	s.buf.WriteByte('\n')

	prog, err := s.engine.Parse(s.buf.String())
	if err != nil {
		var syntaxErr *rgparser.SyntaxError
		// Input ends inside a statement: wait for more unless the user
		// submitted an empty line
		if errors.As(err, &syntaxErr) && len(syntaxErr.Context) == 0 && trimmed != "" {
			return false
		}
		s.buf.Reset()
		fmt.Fprintf(s.out, "syntax error: %v\n", errSyntax(err))
		return false
	}
	s.buf.Reset()
	s.last = prog

	res, err := s.engine.Execute(ctx, prog, s.robot, s.env)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	if res.Actions > 0 {
		r := s.world.Snapshot().Robots[0]
		fmt.Fprintf(s.out, "%d actions, fuel %d, at %s facing %s\n", res.Actions, r.Fuel, r.Pos, r.Heading)
	}
	return false
}

func (s *replSession) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":vars":
		vars := s.env.Snapshot()
		if len(vars) == 0 {
			fmt.Fprintln(s.out, "no variables")
			break
		}
		printVariables(s.out, vars)
	case ":arena":
		fmt.Fprintln(s.out, s.world.Snapshot().String())
	case ":tree":
		if s.last == nil {
			fmt.Fprintln(s.out, "nothing parsed yet")
			break
		}
		fmt.Fprintln(s.out, s.last.String())
	case ":reset":
		if err := s.reset(); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			break
		}
		fmt.Fprintln(s.out, "arena and variables reset")
	case ":help":
		fmt.Fprintln(s.out, ":vars :arena :tree :reset :help :quit")
	default:
		fmt.Fprintf(s.out, "unknown command %s, try :help\n", cmd)
	}
	return false
}

// errSyntax returns the parser error without the engine's wrapping
func errSyntax(err error) error {
	var syntaxErr *rgparser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr
	}
	return err
}
