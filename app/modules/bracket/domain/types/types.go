package brackettypes

// BracketRole marks a bout's position within an elimination bracket.
type BracketRole string

const (
	RoleNone         BracketRole = ""
	RoleQuarterfinal BracketRole = "QUARTERFINAL"
	RoleSemifinal    BracketRole = "SEMIFINAL"
	RoleFinal        BracketRole = "FINAL"
)

// Corner is one side of a bout. FighterID is empty while the corner is
// still unassigned.
type Corner struct {
	FighterID string `json:"fighter_id"`
	Name      string `json:"name,omitempty"`
}

// Bout is a single scheduled match between two corners.
type Bout struct {
	BoutNumber          string      `json:"bout_number"`
	Red                 *Corner     `json:"red,omitempty"`
	Blue                *Corner     `json:"blue,omitempty"`
	BracketRole         BracketRole `json:"bracket_role,omitempty"`
	BracketParticipants []string    `json:"bracket_participants,omitempty"`
}

// HasFighter reports whether either corner carries the given fighter id.
func (b *Bout) HasFighter(fighterID string) bool {
	if fighterID == "" {
		return false
	}
	if b.Red != nil && b.Red.FighterID == fighterID {
		return true
	}
	return b.Blue != nil && b.Blue.FighterID == fighterID
}

// Pairs reports whether the bout pairs exactly the two given fighter ids,
// in either red/blue order.
func (b *Bout) Pairs(fighterA, fighterB string) bool {
	if b.Red == nil || b.Blue == nil {
		return false
	}
	return (b.Red.FighterID == fighterA && b.Blue.FighterID == fighterB) ||
		(b.Red.FighterID == fighterB && b.Blue.FighterID == fighterA)
}

// BracketSlot is one ordered entry position in a bracket definition.
// Bye slots occupy a position without a fighter.
type BracketSlot struct {
	FighterID string `json:"fighter_id"`
	Name      string `json:"name,omitempty"`
	Bye       bool   `json:"bye,omitempty"`
}

// BracketLine is one display row of a bracket summary: a labeled pairing
// with its resolved bout number (or the TBD sentinel).
type BracketLine struct {
	Label      string `json:"label"`
	BoutNumber string `json:"bout_number"`
	RedName    string `json:"red_name,omitempty"`
	BlueName   string `json:"blue_name,omitempty"`
}
