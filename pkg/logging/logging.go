package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/luadb/pkg/paths"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by every component, so a run can be followed through
// the log file with a single filter
const (
	FieldComponent = "component"
	FieldRun       = "run"
	FieldSource    = "source"
	FieldKind      = "kind"
	FieldTable     = "table"
	FieldFile      = "file"
)

// LevelFor maps the -v count to a level: warnings by default, then info,
// debug and trace
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}

// SetupLogger sets the global level and sends logs to stderr and to the
// luadb log file. A log file that can't be opened only costs a warning.
func SetupLogger(verbosity int) {
	logFile := paths.LogFilePath()
	file, err := openLogFile(logFile)

	var fileWriter io.Writer
	if err == nil {
		fileWriter = file
	}
	log.Logger = newLogger(verbosity, os.Stderr, fileWriter)

	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("Failed to open log file, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// newLogger builds the root logger. The console gets the human readable
// format; the log file, when given, gets one JSON object per line.
func newLogger(verbosity int, console io.Writer, file io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}
	if file != nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Int("pid", os.Getpid())
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// GetLogger returns a logger tagged with a component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str(FieldComponent, name).Logger()
}

// ForRun tags logger with a run id
func ForRun(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str(FieldRun, runID).Logger()
}

// ForSource tags logger with a source name and kind
func ForSource(logger zerolog.Logger, name, kind string) zerolog.Logger {
	return logger.With().Str(FieldSource, name).Str(FieldKind, kind).Logger()
}

// ForTable tags logger with a table name and the file it was read from
func ForTable(logger zerolog.Logger, table, file string) zerolog.Logger {
	return logger.With().Str(FieldTable, table).Str(FieldFile, file).Logger()
}

// LogOperationStart logs the start of an operation and returns a function
// logging its completion with the elapsed time
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

// Dump writes a deep dump of v at trace level. The dump is only built when
// trace logging is enabled.
func Dump(logger zerolog.Logger, label string, v interface{}) {
	if logger.GetLevel() > zerolog.TraceLevel || zerolog.GlobalLevel() > zerolog.TraceLevel {
		return
	}
	logger.Trace().Str("label", label).Msg("\n" + spew.Sdump(v))
}
