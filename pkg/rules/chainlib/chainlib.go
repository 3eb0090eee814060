// Package chainlib decides which file names are acceptable fatty-chain libraries.
//
// The libraries themselves are spreadsheets read elsewhere; rule files only
// name them through the ChainLibrary setting.
package chainlib

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSuffixes are the chain-library extensions accepted out of the box.
var DefaultSuffixes = []string{".xlsx", ".xls"}

// Authority validates chain-library names against a set of file suffixes.
type Authority struct {
	suffixes []string
}

// New creates an authority for the given suffixes. Suffixes are matched
// case-insensitively; a missing leading dot is added.
func New(suffixes ...string) *Authority {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	a := &Authority{suffixes: make([]string, 0, len(suffixes))}
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		a.suffixes = append(a.suffixes, s)
	}
	return a
}

// Default returns an authority for DefaultSuffixes.
func Default() *Authority {
	return New(DefaultSuffixes...)
}

// Suffixes returns the accepted suffixes.
func (a *Authority) Suffixes() []string {
	out := make([]string, len(a.suffixes))
	copy(out, a.suffixes)
	return out
}

// Validate checks that name is a bare file name ending in an accepted suffix.
func (a *Authority) Validate(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("chain library name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("chain library %q must be a file name, not a path", name)
	}
	if _, ok := a.match(name); !ok {
		return fmt.Errorf("chain library %q must end with one of %s",
			name, strings.Join(a.suffixes, ", "))
	}
	if a.Stem(name) == "" {
		return fmt.Errorf("chain library %q has no name before its suffix", name)
	}
	return nil
}

// Stem returns the library name without its suffix.
func (a *Authority) Stem(name string) string {
	if suffix, ok := a.match(name); ok {
		return name[:len(name)-len(suffix)]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (a *Authority) match(name string) (string, bool) {
	lower := strings.ToLower(name)
	// longest suffix first so ".xlsx" is not shadowed by a shorter entry
	best := ""
	for _, s := range a.suffixes {
		if strings.HasSuffix(lower, s) && len(s) > len(best) {
			best = s
		}
	}
	return best, best != ""
}
