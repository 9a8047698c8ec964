package livewire

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Silent default
// =============================================================================

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	ctx := context.Background()

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("tattoo", 7)}).(nopHandler); !ok {
		t.Error("WithAttrs() lost the nop handler")
	}
	if _, ok := h.WithGroup("anim").(nopHandler); !ok {
		t.Error("WithGroup() lost the nop handler")
	}
}

func TestLoggerSilentByDefault(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil")
	}
	if l.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger enabled at Warn")
	}
}

// =============================================================================
// SetLogger
// =============================================================================

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	tests := []struct {
		name  string
		level slog.Level
		emit  func(*slog.Logger)
		want  string
	}{
		{"debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("tiles validated", "count", 4) }, "count=4"},
		{"warn", slog.LevelInfo, func(l *slog.Logger) { l.Warn("render skipped", "position", 3) }, "position=3"},
		{"filtered", slog.LevelWarn, func(l *slog.Logger) { l.Info("worker started") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level})))
			tt.emit(Logger())

			got := buf.String()
			if tt.want == "" {
				if got != "" {
					t.Errorf("output = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestSetLoggerNil(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("Logger() after SetLogger(nil) = nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) left an enabled logger")
	}
}

func TestLoggerRace(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(slog.Default())
				SetLogger(nil)
				return
			}
			Logger().Debug("queue depth", "pending", i)
		}()
	}
	wg.Wait()
}

func BenchmarkLoggerDisabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("frame rendered", "position", 1)
	}
}
