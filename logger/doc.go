// Package logger provides structured logging for toolbox packages
// using zerolog.
//
// Loggers carry the service name, an optional component tag and, when built
// from a context holding an active span, the trace and span ids. Fields are
// passed as maps built with Fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("query")
//	log.Debug("equality fallback", logger.Fields(logger.FieldFilterKey, "name"))
package logger
