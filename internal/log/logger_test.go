package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})

	l.InfoContext(context.Background(), "Expense added", FieldExpenseID, "e1")

	out := buf.String()
	for _, want := range []string{"component=ledger", "expense_id=e1", "Expense added"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()).Component(); got != "unknown" {
		t.Fatalf("fallback component = %q", got)
	}
	l := New(Config{Component: ComponentHTTP, Output: &bytes.Buffer{}})
	ctx := IntoContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("logger not found in context")
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithSession("s1").
		WithSession("").
		WithExpense("e1", 1200, "Food").
		WithHTTPResponse(404, 3).
		WithError(nil)
	if f[FieldSessionID] != "s1" || f[FieldSuccess] != false || f[FieldCategory] != "Food" {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error must not be recorded")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatal("ToSlice must emit key/value pairs")
	}
}
