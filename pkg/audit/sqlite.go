package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

// SQLiteStore implements the Store interface using SQLite via the pure-Go
// modernc.org/sqlite driver, so the binary stays cgo-free.
type SQLiteStore struct {
	db     *sql.DB
	config *config.SQLiteConfig
	logger *logging.Logger
}

// NewSQLiteStore creates a new SQLite audit store. It initializes the
// schema and enables WAL mode if configured.
func NewSQLiteStore(cfg *config.SQLiteConfig, logger *logging.Logger) (*SQLiteStore, error) {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults.Audit.SQLite
	}
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "audit.sqlite")

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite audit store initialized",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and pragmas.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists an audit record to the database.
func (s *SQLiteStore) Store(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO transform_runs (
			id, request_id,
			started_at, completed_at,
			mode, template_hash, source_format, output_format, source_bytes, output_bytes,
			status, error_kind, error_message, duration_us
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorKind, errorMessage interface{}
	if record.ErrorKind != "" {
		errorKind = record.ErrorKind
	}
	if record.ErrorMessage != "" {
		errorMessage = record.ErrorMessage
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.RequestID,
		record.StartedAt.UTC().Format(time.RFC3339Nano), record.CompletedAt.UTC().Format(time.RFC3339Nano),
		record.Mode, record.TemplateHash, record.SourceFormat, record.OutputFormat, record.SourceBytes, record.OutputBytes,
		record.Status, errorKind, errorMessage, record.Duration.Microseconds(),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStore) Query(ctx context.Context, query *Query) ([]*Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := `SELECT id, request_id, started_at, completed_at,
		mode, template_hash, source_format, output_format, source_bytes, output_bytes,
		status, error_kind, error_message, duration_us
		FROM transform_runs`
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "DESC"
	if query != nil && query.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	sqlQuery += " ORDER BY started_at " + sortOrder

	limit := 100
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStore) Count(ctx context.Context, query *Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM transform_runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *SQLiteStore) Delete(ctx context.Context, query *Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM transform_runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("sqlite audit store closed")
	return nil
}

// buildWhereClause translates query filters into a WHERE clause and args.
func buildWhereClause(query *Query) (string, []interface{}) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if query.StartTime != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, query.StartTime.UTC().Format(time.RFC3339Nano))
	}
	if query.EndTime != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, query.EndTime.UTC().Format(time.RFC3339Nano))
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}
	if query.ErrorKind != "" {
		conditions = append(conditions, "error_kind = ?")
		args = append(args, query.ErrorKind)
	}
	if query.Mode != "" {
		conditions = append(conditions, "mode = ?")
		args = append(args, query.Mode)
	}
	if query.TemplateHash != "" {
		conditions = append(conditions, "template_hash = ?")
		args = append(args, query.TemplateHash)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a single transform_runs row into a Record.
func scanRow(rows *sql.Rows) (*Record, error) {
	var (
		record       Record
		startedAt    string
		completedAt  string
		errorKind    sql.NullString
		errorMessage sql.NullString
		durationUs   int64
	)

	err := rows.Scan(
		&record.ID, &record.RequestID,
		&startedAt, &completedAt,
		&record.Mode, &record.TemplateHash, &record.SourceFormat, &record.OutputFormat,
		&record.SourceBytes, &record.OutputBytes,
		&record.Status, &errorKind, &errorMessage, &durationUs,
	)
	if err != nil {
		return nil, err
	}

	if record.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if record.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt, err)
	}
	record.ErrorKind = errorKind.String
	record.ErrorMessage = errorMessage.String
	record.Duration = time.Duration(durationUs) * time.Microsecond

	return &record, nil
}
