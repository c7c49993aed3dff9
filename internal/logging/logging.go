package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// WithRun stamps every subsequent log line with the detection run ID so
// persisted runs can be matched back to their console output.
func WithRun(log zerolog.Logger, runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}
