// Package watcher reports edits to rule files so they can be recompiled.
//
//	w, err := watcher.New(watcher.Config{Files: paths, Debounce: 200 * time.Millisecond}, logger)
//	err = w.Watch(ctx, func(ctx context.Context, path string) {
//	    doc, err := parser.NewParser().Parse(path)
//	    ...
//	})
//
// Bursts of writes to one file are collapsed into a single call after the
// debounce interval; edits to different files are debounced independently.
package watcher
