// fragrules compiles and checks lipid fragmentation rule files.
//
// A rule file describes the fragments and intensity relations used to
// confirm one lipid class and adduct in a tandem mass spectrum. The tool
// reads those files, reports rule errors with file and line, prints the
// compiled form and keeps a catalog of compiled revisions.
//
// Usage:
//
//	# Check every rule file in a directory
//	fragrules lint rules/*.frag.txt
//
//	# Print the compiled document as JSON
//	fragrules show --format json rules/PC_H.frag.txt
//
//	# Rewrite a file in canonical form
//	fragrules format --write rules/PC_H.frag.txt
//
//	# Recompile on change and record revisions
//	fragrules watch --config fragrules.yaml rules/*.frag.txt
//
//	# Inspect recorded revisions
//	fragrules catalog history PC_H.frag.txt
//
//	# Record the rule files of a tagged release
//	fragrules catalog import --ref v2.1 https://github.com/example/lipid-rules.git
package main

func main() {
	Execute()
}
