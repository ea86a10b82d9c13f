package settings

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mmynk/onbeventi/internal/storage/memory"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		stored     string
		fallback   string
		wantKey    string
		wantSource Source
	}{
		{name: "nothing configured", wantSource: SourceNone},
		{name: "environment only", fallback: "env-key", wantKey: "env-key", wantSource: SourceEnvironment},
		{name: "stored wins", stored: "user-key", fallback: "env-key", wantKey: "user-key", wantSource: SourceStored},
		{name: "blank stored value ignored", stored: "   ", fallback: "env-key", wantKey: "env-key", wantSource: SourceEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memory.New()
			if tt.stored != "" {
				_ = kv.Put(ctx, "onbeventi_api_key", []byte(tt.stored))
			}
			key, source := New(kv, tt.fallback).Resolve(ctx)
			if key != tt.wantKey || source != tt.wantSource {
				t.Errorf("Resolve() = %q, %s; want %q, %s", key, source, tt.wantKey, tt.wantSource)
			}
		})
	}
}

func TestSetAPIKey(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), "env-key")

	if err := s.SetAPIKey(ctx, "  abc123  "); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if got, _ := s.APIKey(ctx); got != "abc123" {
		t.Errorf("APIKey() = %q, want trimmed abc123", got)
	}

	if err := s.SetAPIKey(ctx, ""); err != nil {
		t.Fatalf("SetAPIKey(\"\") failed: %v", err)
	}
	if got, _ := s.APIKey(ctx); got != "" {
		t.Errorf("APIKey() = %q, want cleared", got)
	}
	if key, source := s.Resolve(ctx); key != "env-key" || source != SourceEnvironment {
		t.Errorf("Resolve() = %q, %s; want environment fallback", key, source)
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"abc":               "***",
		"AIzaSyExample1234": "********1234",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetAPIKeyNeverLogsTheKey(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := New(memory.New(), "")
	if err := s.SetAPIKey(context.Background(), "AIzaSyExample1234"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "API key updated") {
		t.Fatalf("update not logged: %q", out)
	}
	if strings.Contains(out, "1234") || strings.Contains(out, "AIza") {
		t.Errorf("log line exposes the key: %q", out)
	}
}
