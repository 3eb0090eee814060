// Package parser compiles fragmentation-rule files into ast.RuleDocuments.
//
// A rule file is line oriented. Section headers ([GENERAL], [HEAD], [CHAINS],
// [POSITION]) and subsection markers (!FRAGMENTS, !INTENSITIES) drive a small
// state machine; every other non-blank line goes to the general-settings
// table, the fragment compiler or the equation compiler depending on the
// current state. Lines outside any subsection are ignored.
//
// Parsing stops at the first violation and returns an *errors.Error carrying
// the line number and the surrounding source lines:
//
//	doc, err := parser.NewParser().Parse("PC_H.frag.txt")
//	if err != nil {
//	    fmt.Fprint(os.Stderr, err)
//	    os.Exit(1)
//	}
//
// A Parser handles one file at a time. CompileFiles compiles many files
// concurrently with one Parser per file.
package parser
