package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
)

// Credentials carries the externally supplied secrets and endpoints that
// determine which providers are available. Presence of a key at startup is
// what makes a provider "configured"; there is no runtime probing.
type Credentials struct {
	GeminiAPIKey string // GEMINI_API_KEY
	OpenAIAPIKey string // OPENAI_API_KEY
	OllamaHost   string // e.g. http://localhost:11434

	GeminiModel   string // default: gemini-2.5-flash
	OpenAIModel   string // default: gpt-4o-mini
	OllamaModel   string // default: llama3.3
	EmbedderModel string // default: gemini-embedding-001

	GenerateTimeout time.Duration
}

// Model defaults per provider.
const (
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOllamaModel   = "llama3.3"
	DefaultEmbedderModel = "gemini-embedding-001"

	// openAIEmbedderModel is used when Gemini is not configured but OpenAI is.
	openAIEmbedderModel = "text-embedding-3-small"
)

// Backends is the result of wiring Genkit: the configured providers in
// priority order plus the embedder used for index construction. Embedder is
// nil when no embedding-capable backend is configured; retrieval then
// degrades per the engine's fallback chain.
type Backends struct {
	Genkit    *genkit.Genkit
	Providers []Provider
	Embedder  ai.Embedder
}

// SetupBackends initializes Genkit with one plugin per configured provider
// and returns the resulting provider set. Missing credentials are not an
// error: a system with zero providers still serves every turn from local
// fallback responses.
func SetupBackends(ctx context.Context, creds Credentials, logger *slog.Logger) (*Backends, error) {
	if logger == nil {
		logger = slog.Default()
	}
	applyModelDefaults(&creds)

	var plugins []api.Plugin
	var ollamaPlugin *ollama.Ollama

	if creds.GeminiAPIKey != "" {
		plugins = append(plugins, &googlegenai.GoogleAI{APIKey: creds.GeminiAPIKey})
	}
	if creds.OpenAIAPIKey != "" {
		plugins = append(plugins, &openai.OpenAI{APIKey: creds.OpenAIAPIKey})
	}
	if creds.OllamaHost != "" {
		ollamaPlugin = &ollama.Ollama{ServerAddress: creds.OllamaHost}
		plugins = append(plugins, ollamaPlugin)
	}

	g := genkit.Init(ctx, genkit.WithPlugins(plugins...))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}

	backends := &Backends{Genkit: g}

	if creds.GeminiAPIKey != "" {
		backends.Providers = append(backends.Providers,
			newGenkitProvider(g, Gemini, "googleai/"+creds.GeminiModel, creds.GenerateTimeout))
		logger.Info("provider configured", "provider", Gemini, "model", creds.GeminiModel)
	}
	if creds.OpenAIAPIKey != "" {
		backends.Providers = append(backends.Providers,
			newGenkitProvider(g, OpenAI, "openai/"+creds.OpenAIModel, creds.GenerateTimeout))
		logger.Info("provider configured", "provider", OpenAI, "model", creds.OpenAIModel)
	}
	if ollamaPlugin != nil {
		// Ollama requires explicit model registration (no auto-discovery).
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: creds.OllamaModel,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, creds.OllamaHost, creds.EmbedderModel, nil)
		backends.Providers = append(backends.Providers,
			newGenkitProvider(g, Ollama, "ollama/"+creds.OllamaModel, creds.GenerateTimeout))
		logger.Info("provider configured", "provider", Ollama, "host", creds.OllamaHost)
	}

	backends.Embedder = pickEmbedder(g, creds)
	if backends.Embedder == nil {
		logger.Warn("no embedding backend configured, retrieval disabled")
	}
	if len(backends.Providers) == 0 {
		logger.Warn("no generation provider configured, serving local fallback responses only")
	}

	return backends, nil
}

// pickEmbedder selects the embedder for index construction. Each plugin
// registers embedders differently: Gemini by model name, OpenAI by
// provider-qualified lookup, Ollama keyed by server address.
func pickEmbedder(g *genkit.Genkit, creds Credentials) ai.Embedder {
	switch {
	case creds.GeminiAPIKey != "":
		return googlegenai.GoogleAIEmbedder(g, creds.EmbedderModel)
	case creds.OpenAIAPIKey != "":
		return genkit.LookupEmbedder(g, api.NewName("openai", openAIEmbedderModel))
	case creds.OllamaHost != "":
		return ollama.Embedder(g, creds.OllamaHost)
	default:
		return nil
	}
}

func applyModelDefaults(creds *Credentials) {
	if creds.GeminiModel == "" {
		creds.GeminiModel = DefaultGeminiModel
	}
	if creds.OpenAIModel == "" {
		creds.OpenAIModel = DefaultOpenAIModel
	}
	if creds.OllamaModel == "" {
		creds.OllamaModel = DefaultOllamaModel
	}
	if creds.EmbedderModel == "" {
		creds.EmbedderModel = DefaultEmbedderModel
	}
	if creds.GenerateTimeout <= 0 {
		creds.GenerateTimeout = DefaultGenerateTimeout
	}
}
