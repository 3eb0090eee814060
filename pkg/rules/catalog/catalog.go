package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lipidhq/fragrules/pkg/rules"
	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/parser"
)

// MemoryPath opens a catalog that lives only as long as the Catalog.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a revision or source is not in the catalog.
var ErrNotFound = errors.New("revision not found")

// StorageError wraps a database failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Recorder receives catalog events. *metrics.Collector implements it.
type Recorder interface {
	RecordRevision(created bool)
	RecordPrune(removed int64)
}

type nopRecorder struct{}

func (nopRecorder) RecordRevision(bool) {}
func (nopRecorder) RecordPrune(int64)   {}

// Revision is one stored compilation of a rule file.
type Revision struct {
	ID             string    `json:"id" yaml:"id"`
	Source         string    `json:"source" yaml:"source"`
	LipidClass     string    `json:"lipid_class,omitempty" yaml:"lipid_class,omitempty"`
	Adduct         string    `json:"adduct,omitempty" yaml:"adduct,omitempty"`
	Checksum       string    `json:"checksum" yaml:"checksum"`
	CompiledAt     time.Time `json:"compiled_at" yaml:"compiled_at"`
	Fragments      int       `json:"fragments" yaml:"fragments"`
	IntensityRules int       `json:"intensity_rules" yaml:"intensity_rules"`

	// Canonical is the rule document as re-emitted by the writer.
	Canonical []byte `json:"-" yaml:"-"`
}

// Document re-compiles the canonical text of the revision.
func (r Revision) Document() (*ast.RuleDocument, error) {
	return parser.NewParser().ParseBytes(r.Canonical, r.Source)
}

// Checksum returns the hex SHA-256 of rule file content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder reports stored and pruned revisions to r.
func WithRecorder(r Recorder) Option {
	return func(c *Catalog) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock replaces time.Now for revision timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
// Default: 5 seconds
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		c.busyTimeout = d
	}
}

// Catalog stores compiled rule file revisions in SQLite. It is safe for
// concurrent use.
type Catalog struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
	logger      *slog.Logger
	recorder    Recorder
	now         func() time.Time
}

// Open opens (creating if needed) the catalog database at path.
func Open(path string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		path:        path,
		busyTimeout: 5 * time.Second,
		logger:      slog.New(slog.DiscardHandler),
		recorder:    nopRecorder{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, storageError("open", err)
	}
	// One connection serializes writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	c.db = db

	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	c.logger.Debug("catalog opened",
		"path", path,
		"driver", driverType,
	)
	return c, nil
}

// initialize sets pragmas and creates the schema.
func (c *Catalog) initialize() error {
	if _, err := c.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", c.busyTimeout.Milliseconds())); err != nil {
		return storageError("set_busy_timeout", err)
	}

	if c.path != MemoryPath {
		if _, err := c.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return storageError("enable_wal", err)
		}
	}

	if _, err := c.db.Exec(Schema); err != nil {
		return storageError("create_schema", err)
	}
	if _, err := c.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return storageError("insert_schema_version", err)
	}

	var version int
	if err := c.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return storageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return storageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Put stores a revision of source compiled to doc from content. When the
// newest revision of source has the same checksum nothing is written and
// that revision is returned with created set to false.
func (c *Catalog) Put(ctx context.Context, source string, content []byte, doc *ast.RuleDocument) (rev Revision, created bool, err error) {
	canonical, err := rules.Format(doc)
	if err != nil {
		return Revision{}, false, fmt.Errorf("catalog put %s: %w", source, err)
	}

	name := rules.ParseFileName(source)
	rev = Revision{
		ID:             uuid.NewString(),
		Source:         source,
		LipidClass:     name.LipidClass,
		Adduct:         name.Adduct,
		Checksum:       Checksum(content),
		CompiledAt:     c.now().UTC(),
		Fragments:      doc.FragmentCount(),
		IntensityRules: doc.IntensityCount(),
		Canonical:      canonical,
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Revision{}, false, storageError("begin", err)
	}
	defer tx.Rollback()

	latest, err := scanRevision(tx.QueryRowContext(ctx, selectLatest, source))
	switch {
	case err == nil && latest.Checksum == rev.Checksum:
		c.recorder.RecordRevision(false)
		return latest, false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return Revision{}, false, storageError("latest", err)
	}

	if _, err := tx.ExecContext(ctx, insertRevision,
		rev.ID, rev.Source, rev.LipidClass, rev.Adduct, rev.Checksum,
		rev.CompiledAt.UnixNano(), rev.Fragments, rev.IntensityRules, rev.Canonical,
	); err != nil {
		return Revision{}, false, storageError("insert", err)
	}
	if err := tx.Commit(); err != nil {
		return Revision{}, false, storageError("commit", err)
	}

	c.recorder.RecordRevision(true)
	c.logger.Info("revision stored",
		"source", source,
		"revision", rev.ID,
		"checksum", rev.Checksum[:12],
	)
	return rev, true, nil
}

// Latest returns the newest revision of source.
func (c *Catalog) Latest(ctx context.Context, source string) (Revision, error) {
	rev, err := scanRevision(c.db.QueryRowContext(ctx, selectLatest, source))
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: no revisions of %s", ErrNotFound, source)
	}
	if err != nil {
		return Revision{}, storageError("latest", err)
	}
	return rev, nil
}

// Get returns the revision with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (Revision, error) {
	rev, err := scanRevision(c.db.QueryRowContext(ctx, selectByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Revision{}, storageError("get", err)
	}
	return rev, nil
}

// History returns every revision of source, newest first.
func (c *Catalog) History(ctx context.Context, source string) ([]Revision, error) {
	return c.query(ctx, "history", selectHistory, source)
}

// List returns the newest revision of every source, ordered by source.
func (c *Catalog) List(ctx context.Context) ([]Revision, error) {
	return c.query(ctx, "list", selectLatestPerSource)
}

func (c *Catalog) query(ctx context.Context, op, query string, args ...any) ([]Revision, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	revisions := []Revision{}
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, storageError(op, err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return revisions, nil
}

// Prune deletes revisions compiled before olderThan, always keeping the
// newest keep revisions of each source. keep below 1 is treated as 1 so the
// latest revision of a source is never removed.
func (c *Catalog) Prune(ctx context.Context, olderThan time.Time, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}

	res, err := c.db.ExecContext(ctx, deletePrunable, keep, olderThan.UnixNano())
	if err != nil {
		return 0, storageError("prune", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("prune", err)
	}

	c.recorder.RecordPrune(removed)
	c.logger.Info("catalog pruned",
		"removed", removed,
		"older_than", olderThan.Format(time.RFC3339),
		"keep", keep,
	)
	return removed, nil
}

// Ping checks that the database answers.
func (c *Catalog) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return storageError("close", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner) (Revision, error) {
	var (
		rev        Revision
		compiledAt int64
	)
	err := row.Scan(
		&rev.ID, &rev.Source, &rev.LipidClass, &rev.Adduct, &rev.Checksum,
		&compiledAt, &rev.Fragments, &rev.IntensityRules, &rev.Canonical,
	)
	if err != nil {
		return Revision{}, err
	}
	rev.CompiledAt = time.Unix(0, compiledAt).UTC()
	return rev, nil
}
