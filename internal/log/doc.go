// Package log builds the slog loggers used by osintdata.
//
// Every logger returned by New wraps its text or JSON handler in a
// RedactHandler, which masks attribute values that look like credentials
// before they reach the output. Dataset paths and entry counts are logged
// freely; secrets that leak into error messages or lookup inputs are not.
//
// # Usage
//
//	logger, err := log.New(os.Stderr, log.Options{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.Info("dataset loaded", "name", "free_domains", "entries", 4821)
//	logger.Warn("lookup input", "token", "ghp_xxx") // token=***REDACTED***
package log
