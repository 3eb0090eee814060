package catalog

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the revision catalog. compiled_at holds Unix nanoseconds so
// both SQLite drivers scan it identically; seq orders revisions that share a
// timestamp.
const Schema = `
CREATE TABLE IF NOT EXISTS revisions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL,
    lipid_class TEXT NOT NULL DEFAULT '',
    adduct TEXT NOT NULL DEFAULT '',
    checksum TEXT NOT NULL,
    compiled_at INTEGER NOT NULL,
    fragments INTEGER NOT NULL,
    intensity_rules INTEGER NOT NULL,
    canonical BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_revisions_source ON revisions(source, seq);
CREATE INDEX IF NOT EXISTS idx_revisions_compiled_at ON revisions(compiled_at);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const revisionColumns = `id, source, lipid_class, adduct, checksum, compiled_at, fragments, intensity_rules, canonical`

const insertRevision = `
INSERT INTO revisions (` + revisionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const selectLatest = `
SELECT ` + revisionColumns + ` FROM revisions
WHERE source = ? ORDER BY seq DESC LIMIT 1;
`

const selectHistory = `
SELECT ` + revisionColumns + ` FROM revisions
WHERE source = ? ORDER BY seq DESC;
`

const selectByID = `
SELECT ` + revisionColumns + ` FROM revisions WHERE id = ?;
`

const selectLatestPerSource = `
SELECT ` + revisionColumns + ` FROM revisions
WHERE seq IN (SELECT MAX(seq) FROM revisions GROUP BY source)
ORDER BY source;
`

// deletePrunable removes revisions older than the cutoff that are not among
// the newest keep revisions of their source.
const deletePrunable = `
DELETE FROM revisions WHERE seq IN (
    SELECT seq FROM (
        SELECT seq, compiled_at,
               ROW_NUMBER() OVER (PARTITION BY source ORDER BY seq DESC) AS rn
        FROM revisions
    ) WHERE rn > ? AND compiled_at < ?
);
`
