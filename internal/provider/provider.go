// Package provider abstracts the interchangeable text-generation backends
// and selects among them by a time-of-day schedule.
//
// Every backend is reachable through the single Provider interface: one
// generation call in, text or a typed failure out. There is no retry and no
// provider substitution inside a call; substitution, if any, is the caller's
// decision.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Provider identifiers. These are the names reported in diagnostics and the
// keys used by the routing schedule.
const (
	Gemini = "gemini"
	OpenAI = "openai"
	Ollama = "ollama"
)

// DefaultGenerateTimeout bounds a single generation call so a stalled
// upstream cannot hold a turn indefinitely.
const DefaultGenerateTimeout = 30 * time.Second

var (
	// ErrNoProvider indicates no generation backend is configured at all.
	ErrNoProvider = errors.New("no provider configured")

	// ErrGeneration indicates the single upstream call failed, timed out, or
	// returned an unusable response.
	ErrGeneration = errors.New("generation failed")
)

// Provider is a text-generation capability.
type Provider interface {
	// Name returns the provider identifier (Gemini, OpenAI, Ollama).
	Name() string

	// Generate issues exactly one call to the backend with the given system
	// context and user text, returning the response verbatim. Any failure
	// (network, auth, quota, timeout, empty response) is reported as
	// ErrGeneration; Generate never retries.
	Generate(ctx context.Context, system, user string) (string, error)
}

// genkitProvider routes generation through a Genkit-registered model.
type genkitProvider struct {
	name      string
	modelName string // provider-qualified, e.g. "googleai/gemini-2.5-flash"
	g         *genkit.Genkit
	timeout   time.Duration
}

// newGenkitProvider creates a Provider backed by the named Genkit model.
func newGenkitProvider(g *genkit.Genkit, name, modelName string, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &genkitProvider{name: name, modelName: modelName, g: g, timeout: timeout}
}

func (p *genkitProvider) Name() string { return p.name }

func (p *genkitProvider) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := genkit.Generate(ctx, p.g,
		ai.WithModelName(p.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(user),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrGeneration, p.name, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s returned an empty response", ErrGeneration, p.name)
	}
	return text, nil
}
