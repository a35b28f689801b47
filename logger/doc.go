// Package logger is structured logging on top of zerolog.
//
// Loggers are scoped by component and take fields as plain maps. WithContext
// picks up the run id, request id and OpenTelemetry trace id carried by a
// context. Output goes to stdout, stderr or a size-rotated file:
//
//	logging:
//	  level: info
//	  format: json
//	  output: file
//	  file:
//	    path: logs/legalassist.log
//	    max_size_mb: 50
//
// Typical use:
//
//	log := app.Logger.WithComponent("orchestrator").WithContext(ctx)
//	log.Info("stage completed", logger.StageFields("transcribing", "hearing.wav"))
package logger
