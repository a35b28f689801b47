package provider

import (
	"testing"
	"time"
)

func TestOptionsString(t *testing.T) {
	o := Options{"url": "http://x", "empty": "", "port": 8080}
	if got := o.String("url", "d"); got != "http://x" {
		t.Errorf("expected http://x, got %q", got)
	}
	if got := o.String("empty", "d"); got != "d" {
		t.Errorf("expected default for empty, got %q", got)
	}
	if got := o.String("missing", "d"); got != "d" {
		t.Errorf("expected default for missing, got %q", got)
	}
	if got := o.String("port", ""); got != "8080" {
		t.Errorf("expected stringified number, got %q", got)
	}
}

func TestOptionsDuration(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want time.Duration
	}{
		{"missing", nil, 5 * time.Second},
		{"native", 2 * time.Minute, 2 * time.Minute},
		{"go string", "90s", 90 * time.Second},
		{"seconds string", "120", 120 * time.Second},
		{"int seconds", 30, 30 * time.Second},
		{"float seconds", 1.5, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{}
			if tt.val != nil {
				o["timeout"] = tt.val
			}
			got, err := o.Duration("timeout", 5*time.Second)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := (Options{"timeout": "soon"}).Duration("timeout", 0); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestOptionsNumbers(t *testing.T) {
	o := Options{"temperature": "0.2", "max_tokens": 800, "stream": "false"}
	if f, err := o.Float("temperature", 0); err != nil || f != 0.2 {
		t.Errorf("expected 0.2, got %v (%v)", f, err)
	}
	if n, err := o.Int("max_tokens", 0); err != nil || n != 800 {
		t.Errorf("expected 800, got %v (%v)", n, err)
	}
	if b, err := o.Bool("stream", true); err != nil || b {
		t.Errorf("expected false, got %v (%v)", b, err)
	}
	if n, err := o.Int("missing", 7); err != nil || n != 7 {
		t.Errorf("expected default 7, got %v (%v)", n, err)
	}
}
