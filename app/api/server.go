package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	rollupevents "github.com/ringside-labs/fightstats/app/modules/rollup/domain/events"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// Server exposes the HTTP API: health, rollup run triggers, and the bracket
// routes mounted by the bracket module.
type Server struct {
	router    chi.Router
	publisher message.Publisher
	logger    *slog.Logger
}

// NewServer creates the API server and registers the core routes. Modules
// mount their own routes on Router().
func NewServer(logger *slog.Logger, publisher message.Publisher) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		publisher: publisher,
		logger:    logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/rollup/runs", s.handleTriggerRun)

	return s
}

// Router returns the chi router for module route mounting and serving.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// TriggerRunRequest asks for a rollup rebuild of one window.
type TriggerRunRequest struct {
	WindowLabel string `json:"window_label"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// TriggerRunResponse acknowledges an accepted run request.
type TriggerRunResponse struct {
	CorrelationID string `json:"correlation_id"`
	WindowLabel   string `json:"window_label"`
}

// handleTriggerRun publishes a run-requested event. The run itself happens
// asynchronously in the rollup module; completion is reported on the bus.
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	var req TriggerRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.WarnContext(r.Context(), "Rejecting malformed run request", attr.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.WindowLabel == "" {
		http.Error(w, "window_label is required", http.StatusBadRequest)
		return
	}

	payload, err := json.Marshal(rollupevents.RunRequestedPayloadV1{
		WindowLabel: req.WindowLabel,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	correlationID := uuid.New().String()
	msg := message.NewMessage(watermill.NewUUID(), payload)
	wmiddleware.SetCorrelationID(correlationID, msg)

	if err := s.publisher.Publish(rollupevents.RunRequestedV1, msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to publish run request",
			attr.String("window_label", req.WindowLabel),
			attr.Error(err),
		)
		http.Error(w, "failed to enqueue run", http.StatusServiceUnavailable)
		return
	}

	s.logger.InfoContext(r.Context(), "Rollup run requested",
		attr.String("window_label", req.WindowLabel),
		attr.String("correlation_id", correlationID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(TriggerRunResponse{
		CorrelationID: correlationID,
		WindowLabel:   req.WindowLabel,
	})
}
