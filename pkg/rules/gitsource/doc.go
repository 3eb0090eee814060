// Package gitsource reads rule files out of a git repository.
//
// A Repository is either a local checkout, opened in place, or a remote
// URL cloned into memory. Snapshot resolves a branch, tag, or commit and
// returns every rule file in that commit's tree, so rule sets can be
// imported into the catalog exactly as they were committed, independent
// of the working copy.
//
//	repo, err := gitsource.Open(ctx, &cfg.Git)
//	snap, err := repo.Snapshot("v2.1")
//	for _, f := range snap.Files {
//		doc, err := rules.ParseBytes(f.Content, f.Path)
//		...
//	}
package gitsource
