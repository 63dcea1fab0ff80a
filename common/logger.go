package common

import (
	"fmt"
	"log"
	"os"
)

// LogLevel orders severities from most to least severe (lower value is
// more severe) so ShouldLog comparisons read as a simple threshold
// check.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogError
	LogWarning
	LogInfo
	LogDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarning:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "NONE"
	}
}

// ILogger is the logging seam every long-lived goroutine in the engine
// takes: the committer, the queue router, block workers, dispatchers
// and watchers.
type ILogger interface {
	ShouldLog(level LogLevel) bool
	Log(level LogLevel, msg string)
}

type stdLogger struct {
	minimumLevel LogLevel
	logger       *log.Logger
	prefix       string
}

// NewStdLogger returns an ILogger that writes to stderr with the given
// prefix: a thin wrapper over the standard log.Logger, no external
// logging library needed for this concern.
func NewStdLogger(prefix string, minimumLevel LogLevel) ILogger {
	return &stdLogger{
		minimumLevel: minimumLevel,
		logger:       log.New(os.Stderr, "", log.LstdFlags|log.LUTC),
		prefix:       prefix,
	}
}

func (l *stdLogger) ShouldLog(level LogLevel) bool {
	if level == LogNone {
		return false
	}
	return level <= l.minimumLevel
}

func (l *stdLogger) Log(level LogLevel, msg string) {
	if !l.ShouldLog(level) {
		return
	}
	l.logger.Printf("%s: [%s] %s", level, l.prefix, msg)
}

// Logf checks ShouldLog before formatting its arguments, so a call at
// a level below the configured threshold costs nothing.
func Logf(l ILogger, level LogLevel, format string, args ...interface{}) {
	if l == nil || !l.ShouldLog(level) {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...))
}
