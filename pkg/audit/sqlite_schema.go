package audit

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
const Schema = `
-- Transform run records
CREATE TABLE IF NOT EXISTS transform_runs (
    id TEXT PRIMARY KEY,
    request_id TEXT,

    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP NOT NULL,

    mode TEXT NOT NULL,
    template_hash TEXT NOT NULL,
    source_format TEXT,
    output_format TEXT,
    source_bytes INTEGER,
    output_bytes INTEGER,

    status TEXT NOT NULL,
    error_kind TEXT,
    error_message TEXT,
    duration_us INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON transform_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON transform_runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_template_hash ON transform_runs(template_hash);
CREATE INDEX IF NOT EXISTS idx_runs_mode ON transform_runs(mode);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
