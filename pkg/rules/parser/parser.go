package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/chainlib"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/formula"
)

// DefaultMaxFileSize bounds the size of a rule file.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// FormulaValidator checks Formula values against the fragments declared so far.
type FormulaValidator interface {
	Validate(formula string, known formula.Lookup) (formula.Result, error)
}

// Parser compiles rule files into RuleDocuments.
// A Parser runs one parse at a time; use one Parser per goroutine.
type Parser struct {
	// Configuration
	compat      bool  // tab-only fragment tokens, parentheses in fragment names
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
	chainLibs   *chainlib.Authority
	formulas    FormulaValidator
	logger      *slog.Logger

	busy atomic.Bool
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		chainLibs:   chainlib.Default(),
		formulas:    formula.NewValidator(),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithCompatibilityMode selects the compatibility tokenization: fragment
// lines split on tabs only, and fragment names may contain parentheses.
func (p *Parser) WithCompatibilityMode(compat bool) *Parser {
	p.compat = compat
	return p
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithChainLibraries sets the authority that validates ChainLibrary.
func (p *Parser) WithChainLibraries(a *chainlib.Authority) *Parser {
	if a != nil {
		p.chainLibs = a
	}
	return p
}

// WithFormulaValidator replaces the formula validator.
func (p *Parser) WithFormulaValidator(v FormulaValidator) *Parser {
	if v != nil {
		p.formulas = v
	}
	return p
}

// WithLogger sets the logger for parse summaries.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// CompatibilityMode reports whether compatibility tokenization is on.
func (p *Parser) CompatibilityMode() bool {
	return p.compat
}

// Parse compiles the rule file at path.
func (p *Parser) Parse(path string) (*ast.RuleDocument, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, rulesErrors.IO(path, err, "cannot access rule file: %v", err)
	}
	if fileInfo.Size() > p.maxFileSize {
		return nil, rulesErrors.IO(path, nil, "file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rulesErrors.IO(path, err, "cannot read rule file: %v", err)
	}
	return p.ParseBytes(data, path)
}

// ParseReader compiles a rule file read from r.
func (p *Parser) ParseReader(r io.Reader, source string) (*ast.RuleDocument, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize+1))
	if err != nil {
		return nil, rulesErrors.IO(source, err, "cannot read rule file: %v", err)
	}
	return p.ParseBytes(data, source)
}

// ParseBytes compiles rule-file content held in memory. source labels the
// content in error messages.
func (p *Parser) ParseBytes(data []byte, source string) (*ast.RuleDocument, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, rulesErrors.IO(source, nil, "data size %d exceeds maximum %d bytes", len(data), p.maxFileSize)
	}
	if !p.busy.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("parser is already compiling another file; use one Parser per goroutine")
	}
	defer p.busy.Store(false)

	start := time.Now()
	lines := splitLines(data)
	c := newCompilation(p, source)

	doc, err := c.run(lines)
	if err != nil {
		if e, ok := rulesErrors.As(err); ok {
			rulesErrors.AddContextToError(e, lines)
		}
		return nil, err
	}

	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "rule file compiled",
		slog.String("source", source),
		slog.Int("head_fragments", doc.HeadFragments().Len()),
		slog.Int("chain_fragments", doc.ChainFragments().Len()),
		slog.Int("intensity_rules", doc.IntensityCount()),
		slog.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

// splitLines splits content into lines without their terminators.
func splitLines(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
