// Package health reports whether a long-running fragrules process is alive
// and whether its components can do work.
//
// Liveness only says the process answers. Readiness runs every registered
// check concurrently, each under its own timeout, and is "degraded" as soon
// as one of them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("catalog", cat.Ping)
//	checker.Register("watcher", func(ctx context.Context) error { ... })
//	checker.Mount(mux, health.VersionInfo{Version: "0.1.0"})
//
// Mount serves /healthz, /readyz and /version as JSON.
package health
