package brackethandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	bracketservice "github.com/ringside-labs/fightstats/app/modules/bracket/application"
	brackettypes "github.com/ringside-labs/fightstats/app/modules/bracket/domain/types"
	"github.com/ringside-labs/fightstats/internal/observability/attr"
)

// BracketHandlers serves bracket resolution over HTTP for the matchmaking UI.
type BracketHandlers struct {
	logger *slog.Logger
}

// NewBracketHandlers creates a new BracketHandlers.
func NewBracketHandlers(logger *slog.Logger) *BracketHandlers {
	return &BracketHandlers{logger: logger}
}

// ResolveRequest is the payload of a bout-number resolution request.
type ResolveRequest struct {
	Slots     []brackettypes.BracketSlot `json:"slots"`
	Bouts     []brackettypes.Bout        `json:"bouts"`
	PositionA int                        `json:"position_a"`
	PositionB int                        `json:"position_b"`
}

// ResolveResponse carries the resolved bout number or the TBD sentinel.
type ResolveResponse struct {
	BoutNumber string `json:"bout_number"`
}

// SummaryRequest is the payload of a bracket summary request.
type SummaryRequest struct {
	Slots []brackettypes.BracketSlot `json:"slots"`
	Bouts []brackettypes.Bout        `json:"bouts"`
}

// SummaryResponse carries the display rows for one bracket.
type SummaryResponse struct {
	Lines []brackettypes.BracketLine `json:"lines"`
}

// HandleResolve resolves the bout number pairing two slot positions.
func (h *BracketHandlers) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejecting malformed resolve request", attr.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	boutNumber := bracketservice.ResolveBoutNumber(req.Slots, req.Bouts, req.PositionA, req.PositionB)
	writeJSON(w, http.StatusOK, ResolveResponse{BoutNumber: boutNumber})
}

// HandleSummary returns the display rows for a 3- or 4-entrant bracket.
func (h *BracketHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejecting malformed summary request", attr.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lines, err := bracketservice.BracketSummary(req.Slots, req.Bouts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Lines: lines})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
