package log

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// ZerologProvider is a LoggerProvider backed by zerolog.
// It is the default provider for library components that log outside the
// process-wide slog configuration (for example, the pipeline and grid search).
type ZerologProvider struct {
	logger zerolog.Logger
	level  Level
}

// NewZerologProvider creates a provider emitting JSON lines to stderr at the
// given minimum level.
func NewZerologProvider(level Level) *ZerologProvider {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologProvider{
		logger: zl,
		level:  level,
	}
}

// NewZerologProviderWithLogger wraps an existing zerolog.Logger.
// Used by tests to capture output.
func NewZerologProviderWithLogger(zl zerolog.Logger, level Level) *ZerologProvider {
	return &ZerologProvider{
		logger: zl.Level(toZerologLevel(level)),
		level:  level,
	}
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{logger: p.logger, level: p.level}
}

// GetLoggerWithName returns a logger tagged with a component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	zl := p.logger.With().Str(ComponentKey, name).Logger()
	return &zerologLogger{logger: zl, level: p.level}
}

// SetLevel sets the minimum log level for loggers created by this provider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level = level
	p.logger = p.logger.Level(toZerologLevel(level))
}

type zerologLogger struct {
	logger zerolog.Logger
	level  Level
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger(), level: l.level}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= l.level
}

// emit adds the variadic key-value pairs to the event. Error values are
// attached via zerolog's error chain so marshalers on warning types
// (MarshalZerologObject) are honored.
func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
