// Package audit records transform runs for later inspection.
//
// A Record captures the template hash, document sizes, outcome, and timing
// of a single run. Two Store backends are provided: MemoryStore for tests
// and short-lived processes, and SQLiteStore for persistent history (pure-Go
// driver, WAL mode).
//
// The Recorder wraps a Store and never fails the transform on storage
// errors. The Pruner enforces retention by age and record count, optionally
// on a cron schedule:
//
//	store, _ := audit.NewSQLiteStore(&cfg.Audit.SQLite, logger)
//	recorder := audit.NewRecorder(store, logger)
//	pruner := audit.NewPruner(store, &cfg.Audit.Retention, logger)
//	_ = pruner.Start(ctx)
package audit
