// Package ast defines the compiled form of a fragmentation-rule file.
//
// A RuleDocument is produced once per parse by a DocumentBuilder and is
// read only afterwards: accessors return copies, and the [GENERAL] table is
// frozen when the builder finishes.
//
// # Core Types
//
// RuleDocument: root node with the general settings, the [HEAD] and [CHAINS]
// fragments and the intensity rules of [HEAD], [CHAINS] and [POSITION]
//
// FragmentRule: one named fragment with formula, charge, MS level and flags
//
// IntensityRule: one compiled equation, split into a bigger and a smaller side
//
// ComparisonExpression: one side of an equation, a signed sum of
// FragmentTerms with an optional factor for the whole side
//
// FragmentTerm: a fragment reference (or BASEPEAK) with multiplier, sign
// and optional chain position
//
// Fragment names are unique across [HEAD] and [CHAINS] together.
package ast
