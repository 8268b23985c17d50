// Package engine composes guard, classification, retrieval, and generation
// into the single request/response contract exposed to the HTTP boundary.
//
// The fallback chain is strict, not a parallel race: retrieval failure does
// not abort generation, and generation failure does not abort the response —
// it degrades to a local canned answer. Every turn terminates; missing
// credentials, documents, or connectivity are never fatal.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gastonglz/portfolio-engine/internal/domain"
	"github.com/gastonglz/portfolio-engine/internal/guard"
	"github.com/gastonglz/portfolio-engine/internal/provider"
)

// RefusalMessage is the fixed response for blocked input.
const RefusalMessage = "I can't help with that request. Feel free to ask about Gaston's projects, skills, or experience instead."

// Turn is the unit of work: one user message processed through guard,
// retrieval, and generation. Created per request, discarded after the
// response; there is no cross-turn memory.
type Turn struct {
	Response          string
	Blocked           bool
	UsedRetrieval     bool   // Retrieved context shaped the served response (always false for fallbacks)
	Domain            string // Matched domain ID ("" if none)
	ProviderUsed      string // Provider that produced the response ("" if local fallback)
	ProviderAvailable bool   // Whether any provider was configured for this turn
}

// Retriever resolves a domain's index and returns the top-k chunk texts for
// a query. *index.Cache satisfies this interface.
type Retriever interface {
	Retrieve(ctx context.Context, domainID, query string, k int) ([]string, error)
}

// Selector picks the generation backend for the current time.
// *provider.Router satisfies this interface.
type Selector interface {
	Select(now time.Time) (provider.Provider, error)
}

// Config contains all dependencies for an Engine.
type Config struct {
	Inspector  *guard.Inspector
	Classifier *domain.Classifier
	Retriever  Retriever // nil disables retrieval entirely
	Selector   Selector
	Logger     *slog.Logger
	TopK       int              // Chunks per retrieval, 0 = index.DefaultTopK via Retriever
	Now        func() time.Time // Clock override for tests, nil = time.Now
}

// Engine is the response orchestrator. It is stateless per turn and safe for
// concurrent use; the only shared mutable state lives inside the Retriever.
type Engine struct {
	inspector  *guard.Inspector
	classifier *domain.Classifier
	retriever  Retriever
	selector   Selector
	logger     *slog.Logger
	topK       int
	now        func() time.Time
}

// New creates an Engine from the given configuration.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		inspector:  cfg.Inspector,
		classifier: cfg.Classifier,
		retriever:  cfg.Retriever,
		selector:   cfg.Selector,
		logger:     logger,
		topK:       cfg.TopK,
		now:        now,
	}
}

// Respond processes one chat turn. It never returns an error: every failure
// below this level is absorbed into a degraded-but-successful response, and
// only a blocked verdict surfaces as a non-success outcome (Turn.Blocked).
func (e *Engine) Respond(ctx context.Context, message string) Turn {
	// Blocked input terminates immediately; no downstream component runs.
	if v := e.inspector.Inspect(message); v.Blocked {
		e.logger.Warn("input blocked", "reason", v.Reason)
		return Turn{Response: RefusalMessage, Blocked: true}
	}

	text := guard.Sanitize(message)

	// Classify exactly once and reuse the result for both retrieval and the
	// turn diagnostics.
	var turn Turn
	var chunks []string
	if id, ok := e.classifier.Classify(text); ok {
		turn.Domain = id
		if e.retriever != nil {
			retrieved, err := e.retriever.Retrieve(ctx, id, text, e.topK)
			if err != nil {
				e.logger.Debug("retrieval unavailable, continuing without context",
					"domain", id, "error", err)
			} else {
				chunks = retrieved
			}
		}
	}

	system := generalSystemPrompt
	user := text
	if len(chunks) > 0 {
		system = domainSystemPrompt(turn.Domain)
		user = retrievalUserPrompt(chunks, text)
	}

	p, err := e.selector.Select(e.now())
	if err != nil {
		turn.Response = Fallback(text)
		return turn
	}
	turn.ProviderAvailable = true

	// Exactly one generation attempt per turn; on failure the turn degrades
	// to a local response rather than trying another provider.
	response, err := p.Generate(ctx, system, user)
	if err != nil {
		e.logger.Warn("generation failed, serving local fallback",
			"provider", p.Name(), "error", err)
		turn.Response = Fallback(text)
		return turn
	}

	// A canned fallback answer uses none of the retrieved context, so the
	// flag is set only here, on the path that served provider output.
	turn.UsedRetrieval = len(chunks) > 0
	turn.ProviderUsed = p.Name()
	turn.Response = response
	return turn
}

const generalSystemPrompt = "You are the assistant on Gaston's portfolio site. " +
	"Answer questions about his projects, skills, and experience. " +
	"Be concise and friendly. If you do not know something, say so; never invent details."

// domainSystemPrompt narrows generation to one knowledge area backed by
// retrieved documentation.
func domainSystemPrompt(domainID string) string {
	return fmt.Sprintf("You are the assistant on Gaston's portfolio site. "+
		"Answer the question about %s using only the provided documentation. "+
		"Be concise; if the documentation does not cover the question, say so.", domainID)
}

// retrievalUserPrompt places the retrieved chunks, in rank order, ahead of
// the user's question.
func retrievalUserPrompt(chunks []string, question string) string {
	var b strings.Builder
	b.WriteString("Documentation:\n")
	for _, chunk := range chunks {
		b.WriteString(chunk)
		b.WriteString("\n---\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
