package util

import (
	"log"

	"github.com/getsentry/sentry-go"
)

// LogError logs an error with context and reports it to sentry when a
// client has been initialised.
func LogError(message string, err error) {
	if err != nil {
		log.Printf("ERROR: %s - %v", message, err)
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetExtra("message", message)
				hub.CaptureException(err)
			})
		}
	}
}

// LogInfo logs an informational message
func LogInfo(message string) {
	log.Printf("INFO: %s", message)
}

// LogWarning logs a warning message
func LogWarning(message string) {
	log.Printf("WARNING: %s", message)
}
