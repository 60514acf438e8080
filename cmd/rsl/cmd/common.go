package cmd

import (
	"os"
	"path/filepath"
	"strings"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	"github.com/msto63/robogame/foundation/script"
	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/internal/game"
	"github.com/msto63/robogame/internal/store"
)

// readScript loads a script file
func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", rgerror.Wrapf(err, "cannot read script %s", path).
			WithCode(rgerror.CodeNotFound)
	}
	return string(data), nil
}

// robotName derives a robot name from a script path
func robotName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadContestants reads the scripts and gives each robot a distinct name
func loadContestants(paths []string) ([]game.Contestant, error) {
	out := make([]game.Contestant, 0, len(paths))
	seen := make(map[string]int)
	for _, p := range paths {
		src, err := readScript(p)
		if err != nil {
			return nil, err
		}
		name := robotName(p)
		seen[name]++
		if seen[name] > 1 {
			name = name + "-" + string(rune('0'+seen[name]))
		}
		out = append(out, game.Contestant{Name: name, Source: src})
	}
	return out, nil
}

// newEngine creates a script engine from the configuration
func newEngine(trace func(rgexecutor.Event)) (*script.Engine, error) {
	return script.NewEngine(script.Options{
		Logger:           appLogger,
		MaxProgramLength: appConfig.Script.MaxProgramLength,
		CacheSize:        appConfig.Script.CacheSize,
		MaxIterations:    appConfig.Script.MaxIterations,
		Trace:            trace,
	})
}

// loadScenario loads the scenario file, if any
func loadScenario(path string) (*arena.Scenario, error) {
	if path == "" {
		return nil, nil
	}
	return arena.LoadScenario(path)
}

// openStore opens the run history database
func openStore() (*store.Store, error) {
	return store.Open(appConfig.StorePath(), appLogger)
}
