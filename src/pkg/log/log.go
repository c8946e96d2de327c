package log

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Log is the service logger. Every entry carries the service name, the calling
// component (context), the operation (scope) and a free-form meta string.
type Log struct {
	AppName  string
	LogLevel int
	Logger   *logrus.Logger
}

var logger Log

var mapOfLogLevel = map[string]int{
	"DEBUG": 1,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// InitLogger initialize logger from Viper
func InitLogger(v *viper.Viper) {
	logger = New(v.GetString("app.name"), v.GetString("log.level"), os.Stdout)
}

// GetLogger return singleton
func GetLogger() Log {
	return logger
}

// New builds a Log writing JSON lines to out.
func New(appName, level string, out io.Writer) Log {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(out)
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	numeric, ok := mapOfLogLevel[strings.ToUpper(level)]
	if !ok {
		numeric = 1
	}
	return Log{AppName: appName, LogLevel: numeric, Logger: l}
}

// Discard is a logger for tests and tools that should stay quiet.
func Discard() Log {
	return New("test", "ERROR", io.Discard)
}

func (l Log) entry(context, scope, meta string, skip int) *logrus.Entry {
	_, file, line, _ := runtime.Caller(skip)
	return l.Logger.WithFields(logrus.Fields{
		"service": l.AppName,
		"context": context,
		"scope":   scope,
		"meta":    meta,
		"file":    file,
		"line":    line,
	})
}

func (l Log) Info(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.entry(context, scope, meta, 2).Info(message)
}

func (l Log) Warn(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 2 {
		return
	}
	l.entry(context, scope, meta, 2).Warn(message)
}

func (l Log) Error(context, message, scope, meta string) {
	if l.Logger == nil {
		return
	}
	_, file2, line2, _ := runtime.Caller(2)
	l.entry(context, scope, meta, 2).WithFields(logrus.Fields{
		"file2": file2,
		"line2": line2,
	}).Error(message)
}

// Slow records an operation that exceeded its expected latency.
func (l Log) Slow(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.entry(context, scope, meta, 3).Info("[SLOW] " + message)
}
