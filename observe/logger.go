package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/elemops/element"
)

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

// ParseLogLevel parses a level name, case-insensitively. Unknown names are
// info.
func ParseLogLevel(s string) LogLevel {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "info"
	}
	return levelNames[l]
}

// Err returns the "error" field for err. Protocol errors also get an
// "error_name" field.
func Err(err error) []Field {
	if err == nil {
		return nil
	}
	fields := []Field{{Key: "error", Value: err.Error()}}
	if name := element.ErrorName(err); name != "" {
		fields = append(fields, Field{Key: "error_name", Value: name})
	}
	return fields
}

// structuredLogger writes one JSON object per line.
type structuredLogger struct {
	level  LogLevel
	writer io.Writer
	mu     *sync.Mutex // shared with derived loggers
	base   map[string]any
}

// NewLogger creates a JSON logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger writing to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &structuredLogger{
		level:  ParseLogLevel(level),
		writer: w,
		mu:     &sync.Mutex{},
		base:   map[string]any{},
	}
}

// WithCommand returns a logger whose entries carry the command's identity.
func (l *structuredLogger) WithCommand(meta CommandMeta) Logger {
	base := make(map[string]any, len(l.base)+6)
	for k, v := range l.base {
		base[k] = v
	}
	base["command.name"] = meta.Name
	for _, kv := range [...]struct{ key, val string }{
		{"command.kind", meta.Kind},
		{"session.id", meta.SessionID},
		{"browser.name", meta.Browser},
		{"multiremote.instance", meta.Instance},
		{"element.locator", meta.Locator},
	} {
		if kv.val != "" {
			base[kv.key] = kv.val
		}
	}
	return &structuredLogger{level: l.level, writer: l.writer, mu: l.mu, base: base}
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields)
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelError, msg, fields)
}

func (l *structuredLogger) log(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.base)+len(fields)+3)
	for k, v := range l.base {
		entry[k] = v
	}
	for _, f := range fields {
		if redacted(f.Key) {
			entry[f.Key] = "[REDACTED]"
			continue
		}
		entry[f.Key] = f.Value
	}
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
}

var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[k] = true
	}
	return m
}()

// redacted reports whether a field may carry typed input or credentials.
func redacted(key string) bool {
	return redactedKeys[key]
}

var _ Logger = (*structuredLogger)(nil)
