package bracketservice

import (
	"testing"

	brackettypes "github.com/ringside-labs/fightstats/app/modules/bracket/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corner(id string) *brackettypes.Corner {
	return &brackettypes.Corner{FighterID: id}
}

func fourSlots() []brackettypes.BracketSlot {
	return []brackettypes.BracketSlot{
		{FighterID: "A", Name: "Alpha"},
		{FighterID: "B", Name: "Bravo"},
		{FighterID: "C", Name: "Charlie"},
		{FighterID: "D", Name: "Delta"},
	}
}

func TestResolveBoutNumberFourEntrant(t *testing.T) {
	slots := fourSlots()
	bouts := []brackettypes.Bout{
		{BoutNumber: "3", Red: corner("A"), Blue: corner("B"), BracketRole: brackettypes.RoleSemifinal},
		{BoutNumber: "4", Red: corner("C"), Blue: corner("D"), BracketRole: brackettypes.RoleSemifinal},
	}

	assert.Equal(t, "3", ResolveBoutNumber(slots, bouts, 0, 1))
	assert.Equal(t, "4", ResolveBoutNumber(slots, bouts, 2, 3))
	// No final bout exists yet.
	assert.Equal(t, TBD, ResolveBoutNumber(slots, bouts, 0, 2))
}

func TestResolveBoutNumberEitherCornerOrder(t *testing.T) {
	slots := fourSlots()
	bouts := []brackettypes.Bout{
		{BoutNumber: "7", Red: corner("B"), Blue: corner("A")},
	}

	assert.Equal(t, "7", ResolveBoutNumber(slots, bouts, 0, 1))
	assert.Equal(t, "7", ResolveBoutNumber(slots, bouts, 1, 0))
}

func TestResolveBoutNumberEmptySlot(t *testing.T) {
	slots := []brackettypes.BracketSlot{
		{FighterID: "A"},
		{FighterID: "B"},
		{Bye: true},
	}
	bouts := []brackettypes.Bout{
		{BoutNumber: "1", Red: corner("A"), Blue: corner("B")},
	}

	// A bye slot has no fighter id; resolution short-circuits to TBD.
	assert.Equal(t, TBD, ResolveBoutNumber(slots, bouts, 0, 2))
	assert.Equal(t, TBD, ResolveBoutNumber(slots, bouts, 1, 2))
	// Out-of-range positions do the same.
	assert.Equal(t, TBD, ResolveBoutNumber(slots, bouts, 0, 5))
}

func TestResolveBoutNumberUnassignedCorner(t *testing.T) {
	slots := fourSlots()
	bouts := []brackettypes.Bout{
		{BoutNumber: "9", Red: corner("A")}, // blue corner still open
	}

	assert.Equal(t, TBD, ResolveBoutNumber(slots, bouts, 0, 1))
}

func TestBracketSummaryThreeEntrantWithBye(t *testing.T) {
	slots := []brackettypes.BracketSlot{
		{FighterID: "A", Name: "Alpha"},
		{FighterID: "B", Name: "Bravo"},
		{FighterID: "X", Name: "Xray", Bye: true},
	}
	bouts := []brackettypes.Bout{
		{BoutNumber: "1", Red: corner("A"), Blue: corner("B"), BracketRole: brackettypes.RoleSemifinal},
	}

	lines, err := BracketSummary(slots, bouts)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Semifinal", lines[0].Label)
	assert.Equal(t, "1", lines[0].BoutNumber)

	// The final waits on the semifinal winner; the bye side needs no lookup.
	assert.Equal(t, "Final", lines[1].Label)
	assert.Equal(t, TBD, lines[1].BoutNumber)
	assert.Equal(t, "Xray", lines[1].BlueName)
}

func TestBracketSummaryThreeEntrantFinalCreated(t *testing.T) {
	slots := []brackettypes.BracketSlot{
		{FighterID: "A", Name: "Alpha"},
		{FighterID: "B", Name: "Bravo"},
		{FighterID: "X", Name: "Xray", Bye: true},
	}
	bouts := []brackettypes.Bout{
		{BoutNumber: "1", Red: corner("A"), Blue: corner("B"), BracketRole: brackettypes.RoleSemifinal},
		{BoutNumber: "5", Red: corner("A"), Blue: corner("X"), BracketRole: brackettypes.RoleFinal},
	}

	lines, err := BracketSummary(slots, bouts)
	require.NoError(t, err)
	assert.Equal(t, "5", lines[1].BoutNumber)
}

func TestBracketSummaryFourEntrant(t *testing.T) {
	slots := fourSlots()
	bouts := []brackettypes.Bout{
		{BoutNumber: "3", Red: corner("A"), Blue: corner("B"), BracketRole: brackettypes.RoleSemifinal},
		{BoutNumber: "4", Red: corner("C"), Blue: corner("D"), BracketRole: brackettypes.RoleSemifinal},
	}

	lines, err := BracketSummary(slots, bouts)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "3", lines[0].BoutNumber)
	assert.Equal(t, "4", lines[1].BoutNumber)
	assert.Equal(t, TBD, lines[2].BoutNumber)
}

func TestBracketSummaryRejectsOtherSizes(t *testing.T) {
	_, err := BracketSummary(fourSlots()[:2], nil)
	assert.Error(t, err)
}
