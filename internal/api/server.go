// Package api exposes the engine over HTTP: the chat endpoint plus the static
// portfolio payloads and health surface. All responses are JSON; the only
// non-200 outcomes are blocked input (400), malformed requests (400), rate
// limiting (429), and recovered panics (500).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gastonglz/portfolio-engine/internal/engine"
	"github.com/gastonglz/portfolio-engine/internal/provider"
	"github.com/gastonglz/portfolio-engine/internal/site"
)

// maxChatBodyBytes caps the chat request body; questions are short and
// anything larger is abuse.
const maxChatBodyBytes = 64 << 10

// Responder processes one chat message. *engine.Engine satisfies this
// interface.
type Responder interface {
	Respond(ctx context.Context, message string) engine.Turn
}

// ProviderStatus reports generation backend state for the health endpoint.
// *provider.Router satisfies this interface.
type ProviderStatus interface {
	Status(now time.Time) provider.Status
}

// ServerConfig contains all dependencies for a Server.
type ServerConfig struct {
	Responder   Responder
	Providers   ProviderStatus
	Logger      *slog.Logger
	CORSOrigins []string
	RateBurst   int              // Requests per minute per IP, 0 = default
	TrustProxy  bool             // Honor X-Forwarded-For for client IPs
	Now         func() time.Time // Clock override for tests, nil = time.Now
}

// Server is the HTTP boundary. It implements http.Handler with the full
// middleware stack applied.
type Server struct {
	responder Responder
	providers ProviderStatus
	logger    *slog.Logger
	now       func() time.Time
	handler   http.Handler
}

// NewServer wires routes and middleware. The middleware order is fixed:
// recovery outermost, then request ID, access logging, CORS, rate limiting.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		responder: cfg.Responder,
		providers: cfg.Providers,
		logger:    logger,
		now:       now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/skills", s.handleSkills)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleLiveness)
	mux.HandleFunc("GET /ready", s.handleLiveness)

	s.handler = chain(mux,
		recoveryMiddleware(logger),
		requestIDMiddleware,
		loggingMiddleware(logger),
		corsMiddleware(cfg.CORSOrigins),
		newRateLimiter(cfg.RateBurst, cfg.TrustProxy).middleware,
	)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response          string  `json:"response"`
	Blocked           bool    `json:"blocked"`
	UsedRetrieval     bool    `json:"usedRetrieval"`
	Domain            *string `json:"domain"`
	ProviderUsed      *string `json:"providerUsed"`
	ProviderAvailable bool    `json:"providerAvailable"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	turn := s.responder.Respond(r.Context(), message)

	status := http.StatusOK
	if turn.Blocked {
		status = http.StatusBadRequest
	}
	_ = writeJSON(w, status, chatResponse{
		Response:          turn.Response,
		Blocked:           turn.Blocked,
		UsedRetrieval:     turn.UsedRetrieval,
		Domain:            nullable(turn.Domain),
		ProviderUsed:      nullable(turn.ProviderUsed),
		ProviderAvailable: turn.ProviderAvailable,
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, site.Projects())
}

func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, site.Skills())
}

type healthResponse struct {
	Status    string          `json:"status"`
	Providers provider.Status `json:"providers"`
}

// handleHealth reports liveness plus the provider routing snapshot. The
// service is healthy even with zero providers configured; the local fallback
// still answers.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Providers: s.providers.Status(s.now()),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// nullable maps the empty string to JSON null for optional diagnostics.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
