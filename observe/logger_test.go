package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jonwraymond/elemops/element"
)

func decodeEntry(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
	}
	return entry
}

// TestLogger_IncludesCommandFields verifies command fields are present in log output.
func TestLogger_IncludesCommandFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CommandMeta{
		Name:      "click",
		Kind:      "element",
		SessionID: "abc",
		Browser:   "safari",
		Locator:   "css selector=#submit",
	}

	logger.WithCommand(meta).Info(context.Background(), "test message")

	entry := decodeEntry(t, buf.String())
	want := map[string]string{
		"command.name":    "click",
		"command.kind":    "element",
		"session.id":      "abc",
		"browser.name":    "safari",
		"element.locator": "css selector=#submit",
		"msg":             "test message",
		"level":           "info",
	}
	for k, v := range want {
		if got, ok := entry[k].(string); !ok || got != v {
			t.Errorf("expected %s=%q, got %v", k, v, entry[k])
		}
	}
	if _, ok := entry["multiremote.instance"]; ok {
		t.Error("empty instance should be omitted")
	}
}

// TestLogger_ArgsRedactedByDefault verifies typed values are not logged.
func TestLogger_ArgsRedactedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCommand(CommandMeta{Name: "setValue"}).Info(context.Background(), "typed",
		Field{Key: "args", Value: []any{"secret_password_123"}},
		Field{Key: "value", Value: "secret_password_123"},
	)

	output := buf.String()
	if strings.Contains(output, "secret_password_123") {
		t.Fatal("typed value should be redacted, but found in output")
	}
	entry := decodeEntry(t, output)
	if entry["args"] != "[REDACTED]" || entry["value"] != "[REDACTED]" {
		t.Errorf("expected redaction markers, got args=%v value=%v", entry["args"], entry["value"])
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		emit    func(Logger)
		visible bool
	}{
		{"warn", func(l Logger) { l.Info(context.Background(), "m") }, false},
		{"warn", func(l Logger) { l.Warn(context.Background(), "m") }, true},
		{"info", func(l Logger) { l.Debug(context.Background(), "m") }, false},
		{"debug", func(l Logger) { l.Debug(context.Background(), "m") }, true},
		{"error", func(l Logger) { l.Warn(context.Background(), "m") }, false},
		{"error", func(l Logger) { l.Error(context.Background(), "m") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(NewLoggerWithWriter(tt.level, &buf))
		if got := buf.Len() > 0; got != tt.visible {
			t.Errorf("level %s: visible = %v, want %v", tt.level, got, tt.visible)
		}
	}
}

// TestLogger_DerivedLoggersShareWriterLock verifies concurrent derived loggers
// never interleave lines.
func TestLogger_DerivedLoggersShareWriterLock(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			logger.WithCommand(CommandMeta{Name: "click"}).Info(context.Background(), "done")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != n {
		t.Fatalf("expected %d lines, got %d", n, len(lines))
	}
	for _, line := range lines {
		decodeEntry(t, line)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if got := ParseLogLevel(s).String(); got != s {
			t.Errorf("ParseLogLevel(%q).String() = %q", s, got)
		}
	}
	if ParseLogLevel("verbose") != LevelInfo {
		t.Error("unknown levels should default to info")
	}
}

func TestErr(t *testing.T) {
	if Err(nil) != nil {
		t.Error("Err(nil) should be empty")
	}

	plain := Err(errors.New("boom"))
	if len(plain) != 1 || plain[0].Key != "error" || plain[0].Value != "boom" {
		t.Errorf("Err(plain) = %+v", plain)
	}

	named := Err(fmt.Errorf("click: %w", element.NewProtocolError(element.NameStaleElement, "gone", nil)))
	if len(named) != 2 || named[1].Key != "error_name" || named[1].Value != element.NameStaleElement {
		t.Errorf("Err(named) = %+v", named)
	}

	var buf bytes.Buffer
	NewLoggerWithWriter("info", &buf).Error(context.Background(), "failed", named...)
	entry := decodeEntry(t, buf.String())
	if entry["error_name"] != element.NameStaleElement {
		t.Errorf("error_name = %v", entry["error_name"])
	}
}
