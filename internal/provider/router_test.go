package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeProvider is a minimal Provider for routing tests.
type fakeProvider struct {
	name string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(context.Context, string, string) (string, error) {
	return "ok from " + f.name, nil
}

func utcHour(hour int) time.Time {
	return time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC)
}

func TestSelectFollowsSchedule(t *testing.T) {
	router := NewRouter([]Provider{
		&fakeProvider{name: Gemini},
		&fakeProvider{name: OpenAI},
		&fakeProvider{name: Ollama},
	})

	tests := []struct {
		hour int
		want string
	}{
		{0, Gemini},
		{3, Gemini},
		{7, Gemini},
		{8, OpenAI},
		{12, OpenAI},
		{15, OpenAI},
		{16, Ollama},
		{20, Ollama},
		{23, Ollama},
	}
	for _, tt := range tests {
		p, err := router.Select(utcHour(tt.hour))
		if err != nil {
			t.Fatalf("Select(hour=%d) error = %v", tt.hour, err)
		}
		if p.Name() != tt.want {
			t.Errorf("Select(hour=%d) = %s, want %s", tt.hour, p.Name(), tt.want)
		}
	}
}

func TestSelectNonUTCClock(t *testing.T) {
	router := NewRouter([]Provider{
		&fakeProvider{name: Gemini},
		&fakeProvider{name: OpenAI},
		&fakeProvider{name: Ollama},
	})

	// 10:00 in UTC+8 is 02:00 UTC, inside the Gemini range.
	loc := time.FixedZone("UTC+8", 8*3600)
	p, err := router.Select(time.Date(2025, 6, 15, 10, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if p.Name() != Gemini {
		t.Errorf("Select(10:00 UTC+8) = %s, want %s", p.Name(), Gemini)
	}
}

func TestSelectFallbackPriority(t *testing.T) {
	// Hour 3 is scheduled for Gemini; with Gemini unconfigured the first
	// configured provider in priority order must be returned.
	router := NewRouter([]Provider{
		&fakeProvider{name: Ollama},
		&fakeProvider{name: OpenAI},
	})

	p, err := router.Select(utcHour(3))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if p.Name() != OpenAI {
		t.Errorf("Select(hour=3, no gemini) = %s, want %s", p.Name(), OpenAI)
	}
}

func TestSelectSingleProvider(t *testing.T) {
	router := NewRouter([]Provider{&fakeProvider{name: Ollama}})

	for hour := 0; hour < 24; hour++ {
		p, err := router.Select(utcHour(hour))
		if err != nil {
			t.Fatalf("Select(hour=%d) error = %v", hour, err)
		}
		if p.Name() != Ollama {
			t.Errorf("Select(hour=%d) = %s, want %s", hour, p.Name(), Ollama)
		}
	}
}

func TestSelectNoProvider(t *testing.T) {
	router := NewRouter(nil)

	_, err := router.Select(utcHour(3))
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Select() error = %v, want ErrNoProvider", err)
	}
}

func TestStatus(t *testing.T) {
	router := NewRouter([]Provider{
		&fakeProvider{name: OpenAI},
		&fakeProvider{name: Gemini},
	})

	s := router.Status(utcHour(12))
	if s.Active != OpenAI {
		t.Errorf("Active = %s, want %s", s.Active, OpenAI)
	}
	want := []string{Gemini, OpenAI}
	if len(s.Configured) != len(want) {
		t.Fatalf("Configured = %v, want %v", s.Configured, want)
	}
	for i := range want {
		if s.Configured[i] != want[i] {
			t.Errorf("Configured[%d] = %s, want %s (priority order)", i, s.Configured[i], want[i])
		}
	}
}

func TestStatusEmpty(t *testing.T) {
	s := NewRouter(nil).Status(utcHour(0))
	if s.Active != "" {
		t.Errorf("Active = %q, want empty", s.Active)
	}
	if len(s.Configured) != 0 {
		t.Errorf("Configured = %v, want empty", s.Configured)
	}
}
