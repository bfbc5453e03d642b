package brackethandlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	brackettypes "github.com/ringside-labs/fightstats/app/modules/bracket/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleResolve(t *testing.T) {
	handlers := NewBracketHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := ResolveRequest{
		Slots: []brackettypes.BracketSlot{
			{FighterID: "A"}, {FighterID: "B"}, {FighterID: "C"}, {FighterID: "D"},
		},
		Bouts: []brackettypes.Bout{
			{BoutNumber: "3", Red: &brackettypes.Corner{FighterID: "A"}, Blue: &brackettypes.Corner{FighterID: "B"}},
		},
		PositionA: 0,
		PositionB: 1,
	}

	rec := postJSON(t, handlers.HandleResolve, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "3", resp.BoutNumber)
}

func TestHandleResolveMalformedBody(t *testing.T) {
	handlers := NewBracketHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	handlers.HandleResolve(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSummary(t *testing.T) {
	handlers := NewBracketHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := SummaryRequest{
		Slots: []brackettypes.BracketSlot{
			{FighterID: "A", Name: "Alpha"},
			{FighterID: "B", Name: "Bravo"},
			{FighterID: "X", Name: "Xray", Bye: true},
		},
		Bouts: []brackettypes.Bout{
			{BoutNumber: "1", Red: &brackettypes.Corner{FighterID: "A"}, Blue: &brackettypes.Corner{FighterID: "B"}, BracketRole: brackettypes.RoleSemifinal},
		},
	}

	rec := postJSON(t, handlers.HandleSummary, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "1", resp.Lines[0].BoutNumber)
	assert.Equal(t, "TBD", resp.Lines[1].BoutNumber)
}

func TestHandleSummaryUnsupportedSize(t *testing.T) {
	handlers := NewBracketHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := SummaryRequest{
		Slots: []brackettypes.BracketSlot{{FighterID: "A"}, {FighterID: "B"}},
	}
	rec := postJSON(t, handlers.HandleSummary, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
