package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the leveled key/value logger used across the service.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type stdLogger struct {
	out *log.Logger
	min level
}

// New creates a logger that writes to stderr at the given minimum level.
func New(minLevel string) Logger {
	return &stdLogger{
		out: log.New(os.Stderr, "", log.Ldate|log.Ltime),
		min: parseLevel(minLevel),
	}
}

func (l *stdLogger) Debug(msg string, keyvals ...interface{}) { l.log(levelDebug, "DEBUG", msg, keyvals) }
func (l *stdLogger) Info(msg string, keyvals ...interface{})  { l.log(levelInfo, "INFO", msg, keyvals) }
func (l *stdLogger) Warn(msg string, keyvals ...interface{})  { l.log(levelWarn, "WARN", msg, keyvals) }
func (l *stdLogger) Error(msg string, keyvals ...interface{}) { l.log(levelError, "ERROR", msg, keyvals) }

func (l *stdLogger) log(lv level, tag, msg string, keyvals []interface{}) {
	if lv < l.min {
		return
	}
	l.out.Println(tag + ": " + Format(msg, keyvals...))
}

// Format renders a message followed by key=value pairs. An odd trailing key
// gets the value "missing".
func Format(msg string, keyvals ...interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		value := "missing"
		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}
		b.WriteString(" " + key + "=" + value)
	}
	return b.String()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
