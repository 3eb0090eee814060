package ast

import (
	"math/big"
	"strconv"
	"strings"
)

// BasePeak is the reserved fragment literal that denotes the most intense peak.
const BasePeak = "BASEPEAK"

// Sign is the sign of one term of a comparison side.
type Sign int8

const (
	SignPositive Sign = 1
	SignNegative Sign = -1
)

// String returns "+" or "-".
func (s Sign) String() string {
	if s == SignNegative {
		return "-"
	}
	return "+"
}

// MarshalText implements encoding.TextMarshaler.
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Multiplier is an exact positive rational factor. Text keeps the clause as it
// was written (e.g. "2*", "*0.5", "/3"); it is empty for implicit factors.
type Multiplier struct {
	Num  int64  `json:"num" yaml:"num"`
	Den  int64  `json:"den" yaml:"den"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// One returns the implicit factor 1.
func One() Multiplier {
	return Multiplier{Num: 1, Den: 1}
}

// NewMultiplier returns num/den reduced to lowest terms.
func NewMultiplier(num, den int64, text string) Multiplier {
	r := big.NewRat(num, den)
	return Multiplier{Num: r.Num().Int64(), Den: r.Denom().Int64(), Text: text}
}

// MultiplierFromRat converts a reduced rational. ok is false if it does not fit int64.
func MultiplierFromRat(r *big.Rat, text string) (Multiplier, bool) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Multiplier{}, false
	}
	return Multiplier{Num: r.Num().Int64(), Den: r.Denom().Int64(), Text: text}, true
}

// Rat returns the multiplier as a big.Rat.
func (m Multiplier) Rat() *big.Rat {
	if m.Den == 0 {
		return big.NewRat(1, 1)
	}
	return big.NewRat(m.Num, m.Den)
}

// Float64 returns the nearest float64 value.
func (m Multiplier) Float64() float64 {
	f, _ := m.Rat().Float64()
	return f
}

// IsOne reports whether the factor is 1. The zero value counts as 1.
func (m Multiplier) IsOne() bool {
	return m.Den == 0 || m.Num == m.Den
}

// Equal compares the numeric values, ignoring Text.
func (m Multiplier) Equal(other Multiplier) bool {
	return m.Rat().Cmp(other.Rat()) == 0
}

// String renders the value as "n" or "n/d".
func (m Multiplier) String() string {
	return m.Rat().RatString()
}

// suffix renders the factor as a post-multiplier clause that the expression
// compiler reads back: "*2", "/3" or "*0.25".
func (m Multiplier) suffix() string {
	if m.IsOne() {
		return ""
	}
	switch {
	case m.Den == 1:
		return "*" + strconv.FormatInt(m.Num, 10)
	case m.Num == 1:
		return "/" + strconv.FormatInt(m.Den, 10)
	}
	return "*" + decimalString(m.Rat())
}

func decimalString(r *big.Rat) string {
	digits := 0
	den := new(big.Int).Set(r.Denom())
	two, five, zero := big.NewInt(2), big.NewInt(5), big.NewInt(0)
	twos, fives := 0, 0
	mod := new(big.Int)
	for mod.Mod(den, two).Cmp(zero) == 0 && den.Sign() > 0 {
		den.Quo(den, two)
		twos++
	}
	for mod.Mod(den, five).Cmp(zero) == 0 && den.Sign() > 0 {
		den.Quo(den, five)
		fives++
	}
	if den.Cmp(big.NewInt(1)) == 0 {
		digits = max(twos, fives)
	} else {
		digits = 12
	}
	s := r.FloatString(digits)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (m Multiplier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// FragmentTerm is one weighted fragment reference of a comparison side.
type FragmentTerm struct {
	Name       string     `json:"name" yaml:"name"`
	Multiplier Multiplier `json:"multiplier" yaml:"multiplier"`
	Sign       Sign       `json:"sign" yaml:"sign"`
	Position   int        `json:"position,omitempty" yaml:"position,omitempty"`
}

// IsBasePeak reports whether the term references the base peak literal.
func (t FragmentTerm) IsBasePeak() bool {
	return t.Name == BasePeak
}

// String renders the term without its sign.
func (t FragmentTerm) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if t.Position > 0 {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(t.Position))
		sb.WriteString("]")
	}
	sb.WriteString(t.Multiplier.suffix())
	return sb.String()
}

// ComparisonExpression is one side of an intensity equation.
type ComparisonExpression struct {
	Terms            []FragmentTerm `json:"terms" yaml:"terms"`
	GlobalMultiplier Multiplier     `json:"global_multiplier" yaml:"global_multiplier"`
}

// Position returns the chain position shared by the position-qualified terms,
// or 0 when no term carries one.
func (e ComparisonExpression) Position() int {
	for _, t := range e.Terms {
		if t.Position > 0 && !t.IsBasePeak() {
			return t.Position
		}
	}
	return 0
}

// FragmentNames returns the referenced names in term order, BASEPEAK included.
func (e ComparisonExpression) FragmentNames() []string {
	names := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		names[i] = t.Name
	}
	return names
}

// String renders the side in the textual grammar of the rule format.
func (e ComparisonExpression) String() string {
	var sb strings.Builder
	for i, t := range e.Terms {
		switch {
		case t.Sign == SignNegative:
			sb.WriteString("-")
		case i > 0:
			sb.WriteString("+")
		}
		sb.WriteString(t.String())
	}
	if e.GlobalMultiplier.IsOne() {
		return sb.String()
	}
	return "(" + sb.String() + ")" + e.GlobalMultiplier.suffix()
}

func (e ComparisonExpression) clone() ComparisonExpression {
	terms := make([]FragmentTerm, len(e.Terms))
	copy(terms, e.Terms)
	return ComparisonExpression{Terms: terms, GlobalMultiplier: e.GlobalMultiplier}
}
