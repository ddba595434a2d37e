package log

import (
	"fmt"
	"log/slog"
	"os"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// SetupLogger installs the process-wide slog default logger: JSON lines on
// stdout with source locations, plus stacktrace extraction for
// cockroachdb/errors values attached via ErrAttr.
func SetupLogger(loglevel string) {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := WithStacktraces(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(slog.New(handler))
}

// ToLogLevel maps a level name from the command line to a slog level.
// An unknown name is a configuration bug, not a runtime condition.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

// ErrAttr attaches err under the key the stacktrace handler looks for.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
