package errors

import (
	"fmt"
	"strings"
)

// ExtractContext formats the lines around line (1-based) for display. The
// offending line is marked with "->".
func ExtractContext(lines []string, line, contextLines int) string {
	if line <= 0 || line > len(lines) {
		return ""
	}

	errorLine := line - 1
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))
	}

	return sb.String()
}

// WithContext attaches the surrounding lines to err, if it has a line.
func WithContext(err *Error, lines []string, contextLines int) *Error {
	if err.Location.IsValid() && err.Context == "" {
		err.Context = ExtractContext(lines, err.Location.Line, contextLines)
	}
	return err
}

// AddContextToError attaches two lines of context on each side.
func AddContextToError(err *Error, lines []string) *Error {
	return WithContext(err, lines, 2)
}
