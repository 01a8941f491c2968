package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the client's stderr logger.
var Logger = log.NewWithOptions(os.Stderr, log.Options{})

// SetupLogging replaces Logger. Verbose output enables debug messages with timestamps.
func SetupLogging(w io.Writer, verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
	})
}

func Debug(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}
