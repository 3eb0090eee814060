package parser

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"lipidhq/fragrules/pkg/rules/ast"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
)

// Result is the outcome of compiling one file of a batch.
type Result struct {
	Path     string
	Document *ast.RuleDocument
	Err      error
	Duration time.Duration
}

// OK reports whether the file compiled.
func (r Result) OK() bool {
	return r.Err == nil
}

type batchConfig struct {
	concurrency int
	newParser   func() *Parser
	onResult    func(Result)
}

// BatchOption configures CompileFiles.
type BatchOption func(*batchConfig)

// WithConcurrency bounds the number of files compiled at once.
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithParserFactory sets the constructor used for each file's Parser.
func WithParserFactory(fn func() *Parser) BatchOption {
	return func(c *batchConfig) {
		if fn != nil {
			c.newParser = fn
		}
	}
}

// WithResultHook sets a function called as each file finishes. It may be
// called from several goroutines at once.
func WithResultHook(fn func(Result)) BatchOption {
	return func(c *batchConfig) {
		c.onResult = fn
	}
}

// CompileFiles compiles independent rule files concurrently, one Parser per
// file. Results come back in input order. The returned error is an
// *errors.ErrorList with one entry per failed file, or nil.
func CompileFiles(ctx context.Context, paths []string, opts ...BatchOption) ([]Result, error) {
	cfg := batchConfig{
		concurrency: runtime.GOMAXPROCS(0),
		newParser:   NewParser,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
			} else {
				start := time.Now()
				doc, err := cfg.newParser().Parse(path)
				results[i] = Result{Path: path, Document: doc, Err: err, Duration: time.Since(start)}
			}
			if cfg.onResult != nil {
				cfg.onResult(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	errs := rulesErrors.NewErrorList()
	for _, r := range results {
		if r.Err != nil {
			errs.AddError(r.Path, r.Err)
		}
	}
	return results, errs.ToError()
}
