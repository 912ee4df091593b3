// Package logger provides structured logging for autowire using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("alias-cache")
//	log.Info("alias map cached", logger.Fields(logger.FieldClass, id))
package logger
