package expr

import (
	"testing"

	"lipidhq/fragrules/pkg/rules/ast"
)

func TestSplitComparator(t *testing.T) {
	tests := []struct {
		eq          string
		left, right string
		op          byte
	}{
		{"A>B", "A", "B", '>'},
		{"A<B", "A", "B", '<'},
		{"A + B > C", "A + B ", " C", '>'},
	}
	for _, tt := range tests {
		left, right, op, err := SplitComparator(tt.eq)
		if err != nil {
			t.Fatalf("SplitComparator(%q) error = %v", tt.eq, err)
		}
		if left != tt.left || right != tt.right || op != tt.op {
			t.Errorf("SplitComparator(%q) = %q, %q, %c; want %q, %q, %c", tt.eq, left, right, op, tt.left, tt.right, tt.op)
		}
	}
}

func TestSplitBrackets(t *testing.T) {
	g, err := SplitBrackets("2*(A+B)", nil)
	if err != nil {
		t.Fatalf("SplitBrackets() error = %v", err)
	}
	if !g.Grouped || g.Prefix != "2*" || g.Inner != "A+B" || g.Suffix != "" {
		t.Errorf("SplitBrackets() = %+v", g)
	}

	g, err = SplitBrackets("X(1)+B", []string{"X(1)"})
	if err != nil {
		t.Fatalf("SplitBrackets() error = %v", err)
	}
	if g.Grouped || g.Inner != "X(1)+B" {
		t.Errorf("SplitBrackets() with protected name = %+v, want ungrouped", g)
	}
}

func TestFindReference(t *testing.T) {
	names := SortLongestFirst([]string{"FA", "FA_H2O", "FB"})

	tests := []struct {
		working string
		want    string
		start   int
	}{
		{"FA+FA_H2O", "FA_H2O", 3},
		{"FB+FA", "FB", 0},
		{"FB+FA_H2O", "FA_H2O", 3},
		{"FA+FB", "FA", 0},
		{"FA_H2O+BASEPEAK", ast.BasePeak, 7},
	}
	for _, tt := range tests {
		m, ok := FindReference(tt.working, names)
		if !ok {
			t.Fatalf("FindReference(%q) found nothing", tt.working)
		}
		if m.Name != tt.want || m.Start != tt.start {
			t.Errorf("FindReference(%q) = %s@%d, want %s@%d", tt.working, m.Name, m.Start, tt.want, tt.start)
		}
	}

	if _, ok := FindReference("nothing here", names); ok {
		t.Error("FindReference() matched in a string without names")
	}
}

func TestScanPre(t *testing.T) {
	tests := []struct {
		before  string
		carried string
		clause  string
		sign    ast.Sign
	}{
		{"", "", "", ast.SignPositive},
		{"2*", "", "2*", ast.SignPositive},
		{"FA+", "FA", "", ast.SignPositive},
		{"FA - 0.5*", "FA ", " 0.5*", ast.SignNegative},
		{"FA[1]*2+3*", "FA[1]*2", "3*", ast.SignPositive},
	}
	for _, tt := range tests {
		carried, clause, sign := ScanPre(tt.before)
		if carried != tt.carried || clause != tt.clause || sign != tt.sign {
			t.Errorf("ScanPre(%q) = %q, %q, %s; want %q, %q, %s",
				tt.before, carried, clause, sign, tt.carried, tt.clause, tt.sign)
		}
	}
}

func TestScanPost(t *testing.T) {
	pc, err := ScanPost("[2] / 3+FB", 3)
	if err != nil {
		t.Fatalf("ScanPost() error = %v", err)
	}
	if pc.Position != 2 || pc.Multiplier != "/ 3" || pc.Rest != "+FB" {
		t.Errorf("ScanPost() = %+v", pc)
	}

	pc, err = ScanPost("+FB", 0)
	if err != nil {
		t.Fatalf("ScanPost() error = %v", err)
	}
	if pc.Position != 0 || pc.Multiplier != "" || pc.Rest != "+FB" {
		t.Errorf("ScanPost() = %+v", pc)
	}
}

func TestParseMultipliers(t *testing.T) {
	tests := []struct {
		clause   string
		pre      bool
		num, den int64
	}{
		{"2*", true, 2, 1},
		{"0.25*", true, 1, 4},
		{"*3", false, 3, 1},
		{"/4", false, 1, 4},
		{"* 1.5", false, 3, 2},
	}
	for _, tt := range tests {
		var (
			m   ast.Multiplier
			ok  bool
			err error
		)
		if tt.pre {
			m, ok, err = ParsePreMultiplier(tt.clause)
		} else {
			m, ok, err = ParsePostMultiplier(tt.clause)
		}
		if err != nil || !ok {
			t.Fatalf("parse %q: ok = %v, err = %v", tt.clause, ok, err)
		}
		if m.Num != tt.num || m.Den != tt.den {
			t.Errorf("parse %q = %d/%d, want %d/%d", tt.clause, m.Num, m.Den, tt.num, tt.den)
		}
	}

	for _, bad := range []string{"2", "/2", "1.2.3*", "0*"} {
		if _, _, err := ParsePreMultiplier(bad); err == nil {
			t.Errorf("ParsePreMultiplier(%q) succeeded, want error", bad)
		}
	}
}
