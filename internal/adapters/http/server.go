// Package http exposes the planning service over the plan-run wire API the
// wizard polls: start a run, read its state, and optionally stream state
// changes over SSE.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
)

//go:embed openapi.yaml
var openAPISpec []byte

// PlanService is the service core the server fronts.
type PlanService interface {
	StartPlan(ctx context.Context, form domain.TravelForm) (*domain.PlanState, error)
	GetState(ctx context.Context, planRunID string) (*domain.PlanState, error)
}

// Server handles the plan-run HTTP API.
type Server struct {
	Service PlanService
	Streams *StreamManager
	Logger  *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger configures the server's logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewServer creates a Server for the given service core.
func NewServer(svc PlanService, opts ...ServerOption) *Server {
	s := &Server{
		Service: svc,
		Streams: NewStreamManager(),
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BroadcastState pushes a persisted snapshot to any SSE subscribers of its
// run. Wire it to the executor's notify hook.
func (s *Server) BroadcastState(state *domain.PlanState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.Logger.Error("Failed to encode state for broadcast", "err", err)
		return
	}
	s.Streams.Broadcast(state.PlanRunID, string(data))
}

// Handler builds the routed HTTP handler, CORS-wrapped so browser frontends
// can talk to a locally running service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(countRequests)

	r.Post("/plan/start", s.startPlan)
	r.Get("/plan/{planRunID}/state", s.getPlanState)
	r.Get("/plan/{planRunID}/events", s.streamPlanEvents)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// startPlan handles the POST /plan/start request.
func (s *Server) startPlan(w http.ResponseWriter, r *http.Request) {
	var form domain.TravelForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.Logger.Warn("StartPlan: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.Service.StartPlan(r.Context(), form)
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteForm) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.Logger.Error("StartPlan failed", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to start plan: %v", err))
		return
	}

	plansStarted.Inc()
	writeJSON(w, http.StatusOK, state)
}

// getPlanState handles the GET /plan/{planRunID}/state request.
func (s *Server) getPlanState(w http.ResponseWriter, r *http.Request) {
	planRunID := chi.URLParam(r, "planRunID")

	state, err := s.Service.GetState(r.Context(), planRunID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			// Unknown runs get a full state body so clients share one
			// decode path for every response.
			writeJSON(w, http.StatusNotFound, &domain.PlanState{
				PlanRunID:     planRunID,
				State:         domain.RunNotFound,
				Outputs:       map[string]any{},
				StatusMessage: "Plan not found",
			})
			return
		}
		s.Logger.Error("GetPlanState failed", "plan_run_id", planRunID, "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load plan: %v", err))
		return
	}

	stateReads.Inc()
	writeJSON(w, http.StatusOK, state)
}

// streamPlanEvents handles the GET /plan/{planRunID}/events request (SSE).
// The current snapshot is sent immediately, then every persisted transition
// until the client disconnects.
func (s *Server) streamPlanEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.Logger.Error("StreamPlanEvents: Streaming not supported")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	planRunID := chi.URLParam(r, "planRunID")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, unsubscribe := s.Streams.Subscribe(planRunID)
	defer unsubscribe()
	sseClients.Inc()
	defer sseClients.Dec()

	if state, err := s.Service.GetState(r.Context(), planRunID); err == nil {
		if data, merr := json.Marshal(state); merr == nil {
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// getHealth handles the GET /health request.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles the GET /info request.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "voyant-planner",
		"version": voyant.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Voyant Planner API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
