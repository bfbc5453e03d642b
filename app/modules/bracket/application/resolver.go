package bracketservice

import (
	"fmt"

	brackettypes "github.com/ringside-labs/fightstats/app/modules/bracket/domain/types"
)

// TBD is the sentinel bout number for a pairing whose bout does not exist
// yet (or cannot exist, e.g. a final awaiting both semifinal winners).
const TBD = "TBD"

// ResolveBoutNumber returns the bout number pairing the fighters at
// slots[posA] and slots[posB], in either red/blue order, or TBD when no
// such bout exists. A slot without an assigned fighter (bye or vacancy)
// resolves to TBD without scanning. The scan is linear; brackets hold at
// most eight entrants.
func ResolveBoutNumber(slots []brackettypes.BracketSlot, bouts []brackettypes.Bout, posA, posB int) string {
	if posA < 0 || posA >= len(slots) || posB < 0 || posB >= len(slots) {
		return TBD
	}
	fighterA := slots[posA].FighterID
	fighterB := slots[posB].FighterID
	if fighterA == "" || fighterB == "" {
		return TBD
	}

	for i := range bouts {
		if bouts[i].Pairs(fighterA, fighterB) {
			return bouts[i].BoutNumber
		}
	}
	return TBD
}

// BracketSummary builds the display rows for the two supported topologies.
//
// Three entrants [A, B, Bye]: one semifinal pairing slots 0 and 1; the
// final pairs the semifinal winner against the bye entrant, located by
// scanning for any bout the bye entrant appears in (no lookup needed for
// the bye side itself).
//
// Four entrants [A, B, C, D]: semifinals pair (0,1) and (2,3); the final
// is the bout marked with the final role, which exists only once both
// semifinal winners are known.
func BracketSummary(slots []brackettypes.BracketSlot, bouts []brackettypes.Bout) ([]brackettypes.BracketLine, error) {
	switch len(slots) {
	case 3:
		return threeEntrantSummary(slots, bouts), nil
	case 4:
		return fourEntrantSummary(slots, bouts), nil
	}
	return nil, fmt.Errorf("unsupported bracket size %d: expected 3 or 4 slots", len(slots))
}

func threeEntrantSummary(slots []brackettypes.BracketSlot, bouts []brackettypes.Bout) []brackettypes.BracketLine {
	byeSlot := slots[2]

	finalNumber := TBD
	for i := range bouts {
		if bouts[i].BracketRole == brackettypes.RoleFinal && bouts[i].HasFighter(byeSlot.FighterID) {
			finalNumber = bouts[i].BoutNumber
			break
		}
	}

	return []brackettypes.BracketLine{
		{
			Label:      "Semifinal",
			BoutNumber: ResolveBoutNumber(slots, bouts, 0, 1),
			RedName:    slots[0].Name,
			BlueName:   slots[1].Name,
		},
		{
			Label:      "Final",
			BoutNumber: finalNumber,
			RedName:    "Winner of Semifinal",
			BlueName:   byeSlot.Name,
		},
	}
}

func fourEntrantSummary(slots []brackettypes.BracketSlot, bouts []brackettypes.Bout) []brackettypes.BracketLine {
	finalNumber := TBD
	for i := range bouts {
		if bouts[i].BracketRole == brackettypes.RoleFinal {
			finalNumber = bouts[i].BoutNumber
			break
		}
	}

	return []brackettypes.BracketLine{
		{
			Label:      "Semifinal 1",
			BoutNumber: ResolveBoutNumber(slots, bouts, 0, 1),
			RedName:    slots[0].Name,
			BlueName:   slots[1].Name,
		},
		{
			Label:      "Semifinal 2",
			BoutNumber: ResolveBoutNumber(slots, bouts, 2, 3),
			RedName:    slots[2].Name,
			BlueName:   slots[3].Name,
		},
		{
			Label:      "Final",
			BoutNumber: finalNumber,
			RedName:    "Winner of Semifinal 1",
			BlueName:   "Winner of Semifinal 2",
		},
	}
}
