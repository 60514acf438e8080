// File: script.go
// Title: Robot Script Engine
// Description: Parse, check and run robot scripts with a shared program
//              cache and domain error reporting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-05
// Modified: 2026-10-05
//
// Change History:
// - 2026-10-05 v0.1.0: Initial implementation

package script

import (
	"context"
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	rgast "github.com/msto63/robogame/foundation/script/ast"
	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
	rgparser "github.com/msto63/robogame/foundation/script/parser"
)

// DefaultCacheSize is the number of parsed programs kept by an Engine.
const DefaultCacheSize = 128

// Options configures an Engine
type Options struct {
	Logger *rglog.Logger

	// MaxProgramLength limits the source size in bytes.
	// Zero selects parser.DefaultMaxInputLength.
	MaxProgramLength int

	// CacheSize is the number of parsed programs to keep. Zero selects
	// DefaultCacheSize, a negative value disables caching.
	CacheSize int

	// MaxIterations is passed to the executor. Zero means unlimited.
	MaxIterations int64

	// Trace receives evaluator events of every run started by the engine.
	Trace func(rgexecutor.Event)
}

// Result describes a finished run.
type Result struct {
	// Variables holds the final bindings of the run.
	Variables  map[string]int64
	Statements int64
	Actions    int64
	Iterations int64
	Duration   time.Duration
}

// Engine parses and executes robot scripts. It is safe for concurrent use;
// each Run gets its own Environment.
type Engine struct {
	parser   *rgparser.Parser
	executor *rgexecutor.Executor
	cache    *lru.Cache[[sha256.Size]byte, *rgast.Sequence]
	logger   *rglog.Logger
	options  Options
}

// NewEngine creates an engine with the given options
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = rglog.GetDefault()
	}
	if opts.MaxProgramLength <= 0 {
		opts.MaxProgramLength = rgparser.DefaultMaxInputLength
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}

	logger := opts.Logger.WithField("component", "script-engine")

	e := &Engine{
		parser: rgparser.New(rgparser.Options{
			Logger:         opts.Logger,
			MaxInputLength: opts.MaxProgramLength,
		}),
		executor: rgexecutor.New(rgexecutor.Options{
			Logger:        opts.Logger,
			Trace:         opts.Trace,
			MaxIterations: opts.MaxIterations,
		}),
		logger:  logger,
		options: opts,
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[[sha256.Size]byte, *rgast.Sequence](opts.CacheSize)
		if err != nil {
			return nil, rgerror.Wrap(err, "failed to create program cache").
				WithCode(rgerror.CodeInternal).
				WithOperation("script.NewEngine")
		}
		e.cache = cache
	}

	logger.Debug("script engine initialized", rglog.Fields{
		"maxProgramLength": opts.MaxProgramLength,
		"cacheSize":        opts.CacheSize,
		"maxIterations":    opts.MaxIterations,
	})

	return e, nil
}

// Parse returns the syntax tree of src. The returned tree may be shared with
// other callers through the cache and must not be modified.
func (e *Engine) Parse(src string) (*rgast.Sequence, error) {
	var key [sha256.Size]byte
	if e.cache != nil {
		key = sha256.Sum256([]byte(src))
		if prog, ok := e.cache.Get(key); ok {
			return prog, nil
		}
	}

	prog, err := e.parser.Parse(src)
	if err != nil {
		return nil, syntaxError(err)
	}

	if e.cache != nil {
		e.cache.Add(key, prog)
	}
	return prog, nil
}

// Check parses and validates src without running it and returns statistics
// about the program.
func (e *Engine) Check(src string) (rgast.Stats, error) {
	prog, err := e.Parse(src)
	if err != nil {
		return rgast.Stats{}, err
	}
	if err := rgast.Validate(prog); err != nil {
		return rgast.Stats{}, rgerror.Wrap(err, "invalid syntax tree").
			WithCode(rgerror.CodeMalformedAST).
			WithOperation("script.Check")
	}
	return rgast.Collect(prog), nil
}

// Run parses src and executes it against robot in a fresh environment. On a
// runtime error the partial result is returned together with the error.
func (e *Engine) Run(ctx context.Context, src string, robot rgexecutor.Robot) (*Result, error) {
	prog, err := e.Parse(src)
	if err != nil {
		return nil, err
	}

	env := rgexecutor.NewEnvironment()
	res, err := e.Execute(ctx, prog, robot, env)
	return &Result{
		Variables:  env.Snapshot(),
		Statements: res.Statements,
		Actions:    res.Actions,
		Iterations: res.Iterations,
		Duration:   res.Duration,
	}, err
}

// Execute runs an already parsed program in env.
func (e *Engine) Execute(ctx context.Context, prog *rgast.Sequence, robot rgexecutor.Robot, env *rgexecutor.Environment) (rgexecutor.Result, error) {
	if prog == nil {
		return rgexecutor.Result{}, rgerror.New("program cannot be nil").
			WithCode(rgerror.CodeInvalidInput).
			WithOperation("script.Execute")
	}
	if env == nil {
		env = rgexecutor.NewEnvironment()
	}

	res, err := e.executor.Execute(ctx, prog, robot, env)
	if err != nil {
		return res, runtimeError(err)
	}
	return res, nil
}

// CachedPrograms returns the number of programs in the cache.
func (e *Engine) CachedPrograms() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// PurgeCache drops all cached programs.
func (e *Engine) PurgeCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func syntaxError(err error) error {
	var synErr *rgparser.SyntaxError
	if !errors.As(err, &synErr) {
		return rgerror.Wrap(err, "failed to parse script").
			WithOperation("script.Parse")
	}
	return rgerror.Wrap(err, "script syntax error").
		WithCode(rgerror.CodeScriptSyntax).
		WithOperation("script.Parse").
		WithDetail("line", synErr.Line).
		WithDetail("column", synErr.Column).
		WithDetail("near", strings.Join(synErr.Context, " "))
}

func runtimeError(err error) error {
	var rtErr *rgexecutor.RuntimeError
	if !errors.As(err, &rtErr) {
		return rgerror.Wrap(err, "script execution failed").
			WithCode(rgerror.CodeScriptRuntime).
			WithOperation("script.Execute")
	}
	wrapped := rgerror.Wrap(err, "script runtime error").
		WithCode(rtErr.Code()).
		WithOperation("script.Execute").
		WithDetail("op", rtErr.Op)
	if rtErr.Pos.IsValid() {
		wrapped = wrapped.WithDetail("position", rtErr.Pos.String())
	}
	return wrapped
}
