package bracket

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	brackethandlers "github.com/ringside-labs/fightstats/app/modules/bracket/infrastructure/handlers"
	"github.com/ringside-labs/fightstats/config"
)

// Module represents the bracket module. It is stateless: resolution works
// on the slot and bout data the caller already holds, so there is no
// repository or event-bus wiring here.
type Module struct {
	Handlers *brackethandlers.BracketHandlers
	logger   *slog.Logger
}

// NewBracketModule creates a new instance of the bracket module and mounts
// its HTTP routes.
func NewBracketModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	httpRouter chi.Router,
) (*Module, error) {
	logger.InfoContext(ctx, "bracket.NewBracketModule called")

	handlers := brackethandlers.NewBracketHandlers(logger)

	if httpRouter != nil {
		httpRouter.Route("/api/brackets", func(r chi.Router) {
			r.Post("/resolve", handlers.HandleResolve)
			r.Post("/summary", handlers.HandleSummary)
		})
	}

	return &Module{Handlers: handlers, logger: logger}, nil
}
