// Package rules compiles fragmentation-rule files for lipid identification.
//
// A rule file describes, for one lipid class and adduct, the fragments
// expected in MS/MS spectra and how their intensities must relate to each
// other. Files are named "<class>_<adduct>.frag.txt":
//
//	[GENERAL]
//	AmountOfChains=2
//	ChainLibrary=fattyAcidChains.xlsx
//	CAtomsFromName=\D*(\d+):\d+
//	DoubleBondsFromName=\D*\d+:(\d+)
//
//	[HEAD]
//	!FRAGMENTS
//	Name=HG184 Formula=C5H15NO4P Charge=1 MSLevel=2 mandatory=true
//
//	[CHAINS]
//	!FRAGMENTS
//	Name=FA Formula=$CHAIN-H Charge=1 MSLevel=2 mandatory=true
//	!INTENSITIES
//	Equation=FA>BASEPEAK*0.05 mandatory=false
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: the compiled RuleDocument and its parts
// - parser: section scanner, fragment compiler, end-of-file checks
// - expr: the intensity-equation compiler
// - settings: the typed [GENERAL] table
// - formula: the formula validator
// - writer: serialization back to text
// - errors: error type with line, context and suggestions
// - catalog: SQLite history of compiled revisions
// - watcher: recompilation of edited files
// - gitsource: rule files read from a git commit
// - chainlib: accepted chain library file names
//
// ParseFile and WriteFile cover the common case:
//
//	doc, err := rules.ParseFile("PC_H.frag.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.ChainFragments().Names())
package rules
