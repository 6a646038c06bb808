package logger

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestNew_ProducesUsableLogger(t *testing.T) {
	l := New("test")
	if l == nil {
		t.Fatal("New returned nil")
	}
	// must not panic
	l.Debug().Str("k", "v").Msg("debug entry")
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	l.Info().Msg("should go nowhere")
	l.Error().Msg("should go nowhere either")
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := Nop()
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestFromContext_NoLoggerAttached(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil {
		t.Fatal("FromContext must fall back to the global logger, not nil")
	}
	got.Debug().Msg("fallback logger is usable")
}

func TestFromRequest(t *testing.T) {
	l := Nop()
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(l.WithContext(r.Context()))

	got := FromRequest(r)
	if got == nil {
		t.Fatal("FromRequest returned nil")
	}
}
