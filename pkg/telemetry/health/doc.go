// Package health provides liveness and readiness probes for serve mode.
//
// Components register CheckFuncs with a Checker (e.g., an audit store ping).
// The Checker aggregates them into a readiness status and exposes standard
// HTTP endpoints:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("audit", store.Ping)
//	health.Register(mux, checker, version, commit, buildTime)
package health
