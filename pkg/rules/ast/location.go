package ast

import "fmt"

// Location is the position of a rule-file line.
// Rule files are line oriented, so no column is tracked.
type Location struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// String returns "file:line", or "<unknown>" when nothing is known.
func (l Location) String() string {
	switch {
	case l.File == "" && l.Line == 0:
		return "<unknown>"
	case l.Line == 0:
		return l.File
	case l.File == "":
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsValid returns true if the location points at a line.
func (l Location) IsValid() bool {
	return l.Line > 0
}
