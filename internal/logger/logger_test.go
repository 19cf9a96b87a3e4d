package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		opts    Options
		level   zapcore.Level
		wantErr bool
	}{
		{name: "prod default", env: "prod", level: zapcore.InfoLevel},
		{name: "local default", env: "local", level: zapcore.DebugLevel},
		{name: "level override", env: "prod", opts: Options{Level: "warn"}, level: zapcore.WarnLevel},
		{name: "json on local", env: "local", opts: Options{Format: "json"}, level: zapcore.DebugLevel},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "prod", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", env: "prod", opts: Options{Format: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.level) {
				t.Errorf("level %s should be enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && l.Core().Enabled(tt.level-1) {
				t.Errorf("level %s should be disabled", tt.level-1)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")
	if logs.Len() != 1 {
		t.Errorf("expected the stored logger to be used, got %d entries", logs.Len())
	}
}

func TestForRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	l, id := ForRun(zap.New(core), "repair")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id is not a uuid: %q", id)
	}
	l.Info("started")

	fields := logs.All()[0].ContextMap()
	if fields["job"] != "repair" || fields["run_id"] != id {
		t.Errorf("unexpected fields: %v", fields)
	}

	if _, other := ForRun(zap.NewNop(), "repair"); other == id {
		t.Error("run ids must differ between runs")
	}
}
