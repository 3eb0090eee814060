package expr

import "errors"

// Sentinel errors; compiled errors wrap one of these so callers can classify
// them with errors.Is.
var (
	ErrNoComparator        = errors.New("equation has no comparator")
	ErrComparatorPosition  = errors.New("comparator must not be the first or last character")
	ErrMultipleComparators = errors.New("equation has more than one comparator")
	ErrUnbalancedBrackets  = errors.New("unbalanced brackets")
	ErrNestedBrackets      = errors.New("nested bracket groups are not supported")
	ErrNoReference         = errors.New("must reference a declared fragment")
	ErrRemainder           = errors.New("unparseable remainder")
	ErrInvalidMultiplier   = errors.New("invalid multiplier")
	ErrMultipleMultipliers = errors.New("more than one multiplier")
	ErrAmbiguousMultiplier = errors.New("multiplier both before and after")
	ErrPositionSection     = errors.New("position specifiers are only allowed in [POSITION]")
	ErrPositionRange       = errors.New("position out of range")
	ErrInvalidPosition     = errors.New("invalid position specifier")
	ErrMixedPositions      = errors.New("different chain positions on one side")

	errNoMatch = errors.New("no fragment reference")
)
