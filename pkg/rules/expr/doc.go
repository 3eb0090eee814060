// Package expr compiles the intensity equations of a rule file.
//
// An equation compares two weighted sums of fragment intensities:
//
//	FragA*2>FragB
//	(FragA+FragB)*2>FragC
//	FA1[1]>FA1[2]
//
// Compilation is a sequence of pure steps: SplitComparator, SplitBrackets,
// ParseGlobalMultiplier, then repeated ExtractTerm calls until the working
// string is empty. Each step returns its result and the text still to be
// consumed, so every step can be tested on its own.
package expr
