// Package errors provides the error type of the fragmentation-rule compiler.
//
// Every violation found while reading a rule file, whether syntactic (a
// missing comparator, an unbalanced bracket) or semantic (a duplicate
// fragment, an out-of-range position), is an *Error of type ErrorTypeRules.
// ErrorTypeIO covers unreadable input and missing mandatory sections. Callers
// can show either kind to a user as is.
//
// # Error Format
//
//	[rules] position 3 of FA1 is out of range 1..2 (line 14)
//	  --> PC_H.frag.txt:14
//	  |
//	   12 | !INTENSITIES
//	   13 | Equation=FA1[1]>FA1[2]
//	-> 14 | Equation=FA1[3]>FA1[1]
//	  |
//
// Unknown keys and headers carry a Levenshtein-based suggestion:
//
//	suggestion := errors.SuggestName("AmountOfChain", settings.Keys())
//	// Returns: "Did you mean 'AmountOfChains'?"
//
// ErrorList is used by batch compilation only; a single parse stops at the
// first error.
package errors
