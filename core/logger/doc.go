// Package logger builds the zap logger shared by the CLI, the HTTP surface
// and the storage client.
//
// There is no package-level logger: the instance returned by New is passed
// explicitly to every component that logs.
//
// # Configuration
//
//   - Level: debug, info, warn, error. debug switches to zap's development
//     config (ISO8601 timestamps, caller info).
//   - Format: json (default) or console.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	client := storage.NewClient(cfg.Client.Endpoint, storage.WithLogger(log))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
