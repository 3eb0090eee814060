package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
)

// Match is one fragment reference found in a working string.
type Match struct {
	Name  string
	Start int
	End   int
}

// FindReference picks the next reference to extract. The BASEPEAK literal wins
// when present; otherwise the longest declared name, and among equally long
// names the one that occurs first. names must be sorted longest first.
func FindReference(working string, names []string) (Match, bool) {
	if i := strings.Index(working, ast.BasePeak); i >= 0 {
		return Match{Name: ast.BasePeak, Start: i, End: i + len(ast.BasePeak)}, true
	}

	best, found := Match{}, false
	for _, name := range names {
		if found && len(name) < len(best.Name) {
			break
		}
		i := strings.Index(working, name)
		if i < 0 {
			continue
		}
		if !found || i < best.Start {
			best, found = Match{Name: name, Start: i, End: i + len(name)}, true
		}
	}
	return best, found
}

// SortLongestFirst orders names by decreasing length, stably.
func SortLongestFirst(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func isPreChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.', c == '*', c == '/', c == ' ', c == '[', c == ']':
		return true
	}
	return false
}

// ScanPre walks backwards from the end of the text that precedes a reference.
// It collects the multiplier clause and stops at a sign, which becomes the
// term's sign. Anything left of the sign is carried into the next working
// string.
func ScanPre(before string) (carried, clause string, sign ast.Sign) {
	i := len(before)
	for i > 0 && isPreChar(before[i-1]) {
		i--
	}
	clause = before[i:]
	sign = ast.SignPositive
	if i > 0 && (before[i-1] == '+' || before[i-1] == '-') {
		if before[i-1] == '-' {
			sign = ast.SignNegative
		}
		return before[:i-1], clause, sign
	}
	return before[:i], clause, sign
}

// PostClause is what follows a reference: an optional position and an
// optional multiplier clause.
type PostClause struct {
	Position   int
	Multiplier string
	Rest       string
}

// ScanPost reads "[n]" and then one "*N" or "/N" after a reference.
// maxPosition <= 0 means positions are not allowed in the current section.
func ScanPost(after string, maxPosition int) (PostClause, error) {
	pc := PostClause{}
	s := after
	j := skipSpaces(s, 0)

	if j < len(s) && s[j] == '[' {
		k := strings.IndexByte(s[j:], ']')
		if k < 0 {
			return pc, fmt.Errorf("%w: unterminated %q", ErrInvalidPosition, s[j:])
		}
		inner := strings.TrimSpace(s[j+1 : j+k])
		n, err := strconv.Atoi(inner)
		if err != nil {
			return pc, fmt.Errorf("%w: %q is not an integer", ErrInvalidPosition, inner)
		}
		if maxPosition <= 0 {
			return pc, fmt.Errorf("%w: found [%d]", ErrPositionSection, n)
		}
		if n < 1 || n > maxPosition {
			return pc, fmt.Errorf("%w: [%d] must be between 1 and %d", ErrPositionRange, n, maxPosition)
		}
		pc.Position = n
		s = s[j+k+1:]
		j = skipSpaces(s, 0)
	}

	if j < len(s) && (s[j] == '*' || s[j] == '/') {
		start := j
		j = skipSpaces(s, j+1)
		for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
			j++
		}
		pc.Multiplier = s[start:j]
		s = s[j:]
		if k := skipSpaces(s, 0); k < len(s) && (s[k] == '*' || s[k] == '/') {
			return pc, fmt.Errorf("%w after the fragment: %q", ErrMultipleMultipliers, strings.TrimSpace(after))
		}
	}
	pc.Rest = s
	return pc, nil
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// ExtractTerm removes one weighted reference from working and returns it with
// the remaining string.
func ExtractTerm(working string, names []string, maxPosition int) (ast.FragmentTerm, string, error) {
	m, ok := FindReference(working, names)
	if !ok {
		return ast.FragmentTerm{}, working, errNoMatch
	}

	carried, preClause, sign := ScanPre(working[:m.Start])
	post, err := ScanPost(working[m.End:], maxPosition)
	if err != nil {
		return ast.FragmentTerm{}, working, fmt.Errorf("%s: %w", m.Name, err)
	}

	pre, hasPre, err := ParsePreMultiplier(preClause)
	if err != nil {
		return ast.FragmentTerm{}, working, fmt.Errorf("%s: %w", m.Name, err)
	}
	postMul, hasPost, err := ParsePostMultiplier(post.Multiplier)
	if err != nil {
		return ast.FragmentTerm{}, working, fmt.Errorf("%s: %w", m.Name, err)
	}
	if hasPre && hasPost {
		return ast.FragmentTerm{}, working, fmt.Errorf("%w %s: %q and %q",
			ErrAmbiguousMultiplier, m.Name, strings.TrimSpace(preClause), strings.TrimSpace(post.Multiplier))
	}

	mult := ast.One()
	switch {
	case hasPre:
		mult = pre
	case hasPost:
		mult = postMul
	}
	if m.Name == ast.BasePeak && post.Position > 0 {
		return ast.FragmentTerm{}, working, fmt.Errorf("%w: %s cannot carry a chain position", ErrInvalidPosition, ast.BasePeak)
	}

	term := ast.FragmentTerm{Name: m.Name, Multiplier: mult, Sign: sign, Position: post.Position}
	return term, carried + post.Rest, nil
}
