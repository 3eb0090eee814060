package ast

import "fmt"

// ChainType is the kind of hydrocarbon chain a chain fragment is built on.
type ChainType int

const (
	ChainNone ChainType = iota
	ChainAcyl
	ChainAlkyl
	ChainAlkenyl
)

// Reserved formula tokens.
const (
	TokenPrecursor    = "$PRECURSOR"
	TokenChain        = "$CHAIN"
	TokenAlkylChain   = "$ALKYLCHAIN"
	TokenAlkenylChain = "$ALKENYLCHAIN"
)

// ChainTypes lists the real chain types in quota order.
func ChainTypes() []ChainType {
	return []ChainType{ChainAcyl, ChainAlkyl, ChainAlkenyl}
}

// String returns the lower-case chain type name.
func (c ChainType) String() string {
	switch c {
	case ChainAcyl:
		return "acyl"
	case ChainAlkyl:
		return "alkyl"
	case ChainAlkenyl:
		return "alkenyl"
	}
	return "none"
}

// Token returns the formula token that denotes the chain type.
func (c ChainType) Token() string {
	switch c {
	case ChainAcyl:
		return TokenChain
	case ChainAlkyl:
		return TokenAlkylChain
	case ChainAlkenyl:
		return TokenAlkenylChain
	}
	return ""
}

// ChainTypeFromToken maps a reserved chain token to its type.
func ChainTypeFromToken(token string) (ChainType, bool) {
	switch token {
	case TokenChain:
		return ChainAcyl, true
	case TokenAlkylChain:
		return ChainAlkyl, true
	case TokenAlkenylChain:
		return ChainAlkenyl, true
	}
	return ChainNone, false
}

// MarshalText implements encoding.TextMarshaler.
func (c ChainType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChainType) UnmarshalText(text []byte) error {
	for _, candidate := range append(ChainTypes(), ChainNone) {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown chain type %q", string(text))
}
