package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"lipidhq/fragrules/pkg/cli"
	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/catalog"
	"lipidhq/fragrules/pkg/rules/parser"
	rulesErrors "lipidhq/fragrules/pkg/rules/errors"
	"lipidhq/fragrules/pkg/rules/watcher"
	"lipidhq/fragrules/pkg/telemetry/health"
	"lipidhq/fragrules/pkg/telemetry/logging"
	"lipidhq/fragrules/pkg/telemetry/metrics"
	"lipidhq/fragrules/pkg/telemetry/tracing"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Recompile rule files on change and record revisions",
	Long: `Compile the given rule files, then recompile each one whenever it is
saved. Every successful compile whose content changed is stored as a new
revision in the catalog. Failures are logged with file and line and leave
the catalog untouched.

Old revisions are pruned on the catalog.prune_schedule cron schedule.
When metrics are enabled, compile and catalog metrics are served at
/metrics on metrics.listen_address, next to the /healthz, /readyz and
/version probes. With tracing enabled every recompile is exported as a
span to the configured OTLP collector.

Examples:
  fragrules watch rules/*.frag.txt
  fragrules watch --config fragrules.yaml rules/PC_H.frag.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: watchRules,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchRules(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, stderr(cmd))
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(&cfg.Metrics, nil)

	tracer, err := tracing.New(&cfg.Tracing, tracing.WithVersion(Version), tracing.WithGlobal())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("flushing spans failed", "error", err)
		}
	}()

	cat, err := openCatalog(cfg, logger, collector)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer cat.Close()

	scheduler := catalog.NewScheduler(cat, retentionPolicy(cfg))
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer scheduler.Stop()

	w, err := watcher.New(watcher.Config{Files: args, Debounce: cfg.Watch.Debounce}, logger.Component("watcher").Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	if cfg.Metrics.Enabled {
		checker := health.New(2 * time.Second)
		checker.Register("catalog", cat.Ping)
		checker.Register("watcher", func(context.Context) error {
			if !w.Running() {
				return errors.New("watcher not running")
			}
			return nil
		})
		_, shutdown, err := serveTelemetry(cfg.Metrics.ListenAddress, collector, checker, logger)
		if err != nil {
			w.Stop()
			return cli.NewCommandError("watch", err)
		}
		defer shutdown()
	}

	rec := &revisionRecorder{
		newParser: newParserFactory(cfg, logger),
		catalog:   cat,
		collector: collector,
		tracer:    tracer,
		logger:    logger.Component("watch"),
	}
	for _, path := range w.Files() {
		_ = rec.record(ctx, path)
	}

	err = w.Watch(ctx, func(ctx context.Context, path string) {
		_ = rec.record(ctx, path)
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// revisionRecorder compiles changed files and stores the results.
type revisionRecorder struct {
	newParser func() *parser.Parser
	catalog   *catalog.Catalog
	collector *metrics.Collector
	tracer    *tracing.Tracer
	logger    *logging.Logger
}

// record compiles path and stores a revision keyed by the file's base name.
func (r *revisionRecorder) record(ctx context.Context, path string) (err error) {
	source := filepath.Base(path)
	ctx = logging.WithSource(ctx, source)
	ctx, span := r.tracer.Start(ctx, "fragrules.record", trace.WithAttributes(tracing.SourceAttributes(path)...))
	defer func() {
		tracing.SetStatus(span, err)
		span.End()
	}()

	_, compileSpan := r.tracer.Start(ctx, "fragrules.compile")
	start := time.Now()
	doc, content, err := r.compile(path)
	r.collector.RecordCompile(doc, err, time.Since(start))
	tracing.SetDocumentAttributes(compileSpan, doc)
	tracing.SetStatus(compileSpan, err)
	compileSpan.End()
	if err != nil {
		r.logger.ErrorContext(ctx, "compile failed", "error", err)
		return err
	}

	putCtx, putSpan := r.tracer.Start(ctx, "fragrules.catalog.put")
	rev, created, err := r.catalog.Put(putCtx, source, content, doc)
	tracing.SetStatus(putSpan, err)
	putSpan.End()
	if err != nil {
		r.logger.ErrorContext(ctx, "store revision failed", "error", err)
		return err
	}
	tracing.SetRevisionAttributes(span, rev.ID, created)
	if created {
		r.logger.InfoContext(logging.WithRevision(ctx, rev.ID), "compiled",
			"fragments", rev.Fragments,
			"intensity_rules", rev.IntensityRules,
		)
	}
	return nil
}

// compile reads path once so the stored checksum matches the compiled text.
func (r *revisionRecorder) compile(path string) (*ast.RuleDocument, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, rulesErrors.IO(path, err, "cannot read rule file: %v", err)
	}
	doc, err := r.newParser().ParseReader(bytes.NewReader(content), path)
	if err != nil {
		return nil, nil, err
	}
	return doc, content, nil
}

// openCatalog opens the configured catalog, creating its directory.
func openCatalog(cfg *config.Config, logger *logging.Logger, recorder catalog.Recorder) (*catalog.Catalog, error) {
	path := cfg.Catalog.Path
	if path != catalog.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}
	opts := []catalog.Option{catalog.WithLogger(logger.Component("catalog").Slog())}
	if recorder != nil {
		opts = append(opts, catalog.WithRecorder(recorder))
	}
	return catalog.Open(path, opts...)
}

func retentionPolicy(cfg *config.Config) catalog.RetentionPolicy {
	return catalog.RetentionPolicy{
		Schedule:      cfg.Catalog.PruneSchedule,
		RetentionDays: cfg.Catalog.RetentionDays,
		KeepRevisions: cfg.Catalog.KeepRevisions,
	}
}

// serveTelemetry serves the collector's registry at /metrics and the
// health probes on addr. It returns the bound address and a function that
// shuts the server down.
func serveTelemetry(addr string, collector *metrics.Collector, checker *health.Checker, logger *logging.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	checker.Mount(mux, health.VersionInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate})
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("telemetry server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics and health probes", "address", ln.Addr().String())

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-done
	}, nil
}
