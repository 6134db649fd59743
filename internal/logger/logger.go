package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Aliases so callers don't import logrus directly.
type Logger = logrus.Logger
type LogEntry = logrus.Entry
type Fields = logrus.Fields

var rootLogger = logrus.StandardLogger()

// Configure sets the shared formatter and level. Output stays where it is
// until SetupFile redirects it.
func Configure(debug bool) {
	root().SetReportCaller(true)
	root().SetFormatter(PlainFormatter{})
	if debug {
		root().SetLevel(logrus.DebugLevel)
	} else {
		root().SetLevel(logrus.InfoLevel)
	}
}

// SetupFile redirects the shared logger to path and returns the file closer.
// The interactive chat owns the terminal, so it always logs to a file.
func SetupFile(path string) (io.Closer, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	root().SetOutput(f)
	return f, nil
}

// Discard silences the shared logger (tests, --quiet).
func Discard() {
	root().SetOutput(io.Discard)
}

// SetRoot replaces the shared logger; nil resets to the logrus standard logger.
func SetRoot(l *Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	rootLogger = l
}

// Named returns an entry tagged with a component field.
func Named(component string) *LogEntry {
	entry := logrus.NewEntry(root())
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

func root() *logrus.Logger {
	if rootLogger == nil {
		rootLogger = logrus.StandardLogger()
	}
	return rootLogger
}

// PlainFormatter writes: caller [timestamp] [LEVEL] [component] message k=v.
type PlainFormatter struct{}

// Format implements logrus.Formatter.
func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}
	parts := make([]string, 0, 6)
	if entry.HasCaller() && entry.Caller != nil {
		parts = append(parts, fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line))
	}
	parts = append(parts, "["+entry.Time.UTC().Format(time.RFC3339Nano)+"]")
	parts = append(parts, "["+strings.ToUpper(entry.Level.String())+"]")
	if component, ok := entry.Data["component"].(string); ok && component != "" {
		parts = append(parts, "["+component+"]")
	}
	parts = append(parts, entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		parts = append(parts, fields)
	}
	return []byte(strings.Join(parts, " ") + "\n"), nil
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "component" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}
