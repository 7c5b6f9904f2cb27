package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger. Its level can be changed at runtime.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

// Unknown level strings fall back to debug so nothing is hidden.
const defaultZapLevel = zapcore.DebugLevel

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl > zapcore.ErrorLevel {
		return defaultZapLevel
	}
	return lvl
}

// SetLevel switches the level, e.g. after the config file changed.
func (l *Logger) SetLevel(levelStr string) {
	l.level.SetLevel(parseLevel(levelStr))
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level { return l.level.Level() }

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	if format == FormatJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newLogger(w io.Writer, levelStr, format string) *Logger {
	level := zap.NewAtomicLevelAt(parseLevel(levelStr))
	core := zapcore.NewCore(newEncoder(format), zapcore.Lock(zapcore.AddSync(w)), level)
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		level:         level,
	}
}

func newStdoutLogger(levelStr, format string) *Logger {
	return newLogger(os.Stdout, levelStr, format)
}
