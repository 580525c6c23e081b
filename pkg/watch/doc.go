// Package watch re-runs transforms when source or template files change.
//
// The Watcher registers the parent directories of the watched files with
// fsnotify, so atomic editor saves (write temp, rename over target) are
// still observed. Events are debounced before invoking the callback.
//
//	w, err := watch.New(&watch.Config{
//	    Files:            []string{sourcePath, templatePath},
//	    DebounceInterval: cfg.Watch.DebounceInterval,
//	}, logger)
//	err = w.Watch(ctx, rerun)
package watch
