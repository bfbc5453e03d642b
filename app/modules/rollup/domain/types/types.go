package rolluptypes

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FightResult is the outcome of a single bout from one fighter's perspective.
type FightResult string

const (
	ResultWin              FightResult = "WIN"
	ResultLoss             FightResult = "LOSS"
	ResultNoContest        FightResult = "NO_CONTEST"
	ResultDisqualification FightResult = "DISQUALIFICATION"
)

// String implements fmt.Stringer.
func (r FightResult) String() string {
	return string(r)
}

// ParseFightResult maps the encodings found in event data onto a FightResult.
// Accepts both the short codes ("W", "L", "NC", "DQ") and the long forms,
// case-insensitively.
func ParseFightResult(raw string) (FightResult, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "W", "WIN":
		return ResultWin, nil
	case "L", "LOSS":
		return ResultLoss, nil
	case "NC", "NO CONTEST", "NO_CONTEST":
		return ResultNoContest, nil
	case "DQ", "DISQUALIFICATION":
		return ResultDisqualification, nil
	}
	return "", fmt.Errorf("unknown fight result %q", raw)
}

// BoutType distinguishes regular bouts from tournament (bracket) bouts.
type BoutType string

const (
	BoutTypeRegular    BoutType = "REGULAR"
	BoutTypeTournament BoutType = "TOURNAMENT"
)

// SkillTotals holds the ten scored skill categories tracked per fight.
// On a FightEntry they are per-fight deltas; on a record they are running sums.
type SkillTotals struct {
	Punches    int `json:"punches"`
	Kicks      int `json:"kicks"`
	Knees      int `json:"knees"`
	Elbows     int `json:"elbows"`
	ClinchWork int `json:"clinch_work"`
	Throws     int `json:"throws"`
	Takedowns  int `json:"takedowns"`
	Sweeps     int `json:"sweeps"`
	Knockdowns int `json:"knockdowns"`
	Defense    int `json:"defense"`
}

// Add accumulates another set of totals into s.
func (s *SkillTotals) Add(delta SkillTotals) {
	s.Punches += delta.Punches
	s.Kicks += delta.Kicks
	s.Knees += delta.Knees
	s.Elbows += delta.Elbows
	s.ClinchWork += delta.ClinchWork
	s.Throws += delta.Throws
	s.Takedowns += delta.Takedowns
	s.Sweeps += delta.Sweeps
	s.Knockdowns += delta.Knockdowns
	s.Defense += delta.Defense
}

// FightEntry is one fight in a fighter's history.
type FightEntry struct {
	EventID     string      `json:"event_id"`
	EventName   string      `json:"event_name"`
	Date        string      `json:"date"` // YYYY-MM-DD
	Result      FightResult `json:"result"`
	WeightClass int         `json:"weight_class"`
	OpponentID  string      `json:"opponent_id,omitempty"`
	BoutType    BoutType    `json:"bout_type"`
	Skills      SkillTotals `json:"skills"`
}

// ParticipantRecord is the cumulative rollup document for one fighter.
type ParticipantRecord struct {
	ID                string       `json:"id"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	Gym               string       `json:"gym"`
	Contact           string       `json:"contact"`
	WeightClasses     []int        `json:"weight_classes"`
	Wins              int          `json:"wins"`
	Losses            int          `json:"losses"`
	NoContests        int          `json:"no_contests"`
	Disqualifications int          `json:"disqualifications"`
	TournamentWins    int          `json:"tournament_wins"`
	TournamentLosses  int          `json:"tournament_losses"`
	Skills            SkillTotals  `json:"skills"`
	Fights            []FightEntry `json:"fights"`
	LastUpdated       time.Time    `json:"last_updated"`
}

// AddWeightClass inserts wc into the sorted weight-class set if absent.
func (p *ParticipantRecord) AddWeightClass(wc int) {
	p.WeightClasses = insertSortedUnique(p.WeightClasses, wc)
}

// ApplyResult bumps the counter matching the result/bout-type pair.
func (p *ParticipantRecord) ApplyResult(result FightResult, boutType BoutType) {
	if boutType == BoutTypeTournament {
		switch result {
		case ResultWin:
			p.TournamentWins++
		default:
			p.TournamentLosses++
		}
		return
	}
	switch result {
	case ResultWin:
		p.Wins++
	case ResultLoss:
		p.Losses++
	case ResultNoContest:
		p.NoContests++
	case ResultDisqualification:
		p.Disqualifications++
	}
}

// RosterEntry is one fighter on a gym's roster.
type RosterEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Contact   string `json:"contact,omitempty"`
}

// GymFightEntry is a FightEntry annotated with the fighter it belongs to.
type GymFightEntry struct {
	FightEntry
	FighterID   string `json:"fighter_id"`
	FighterName string `json:"fighter_name"`
}

// GymRecord is the cumulative rollup document for one gym.
type GymRecord struct {
	ID                string          `json:"id"`
	DisplayName       string          `json:"display_name"`
	Wins              int             `json:"wins"`
	Losses            int             `json:"losses"`
	NoContests        int             `json:"no_contests"`
	Disqualifications int             `json:"disqualifications"`
	TournamentWins    int             `json:"tournament_wins"`
	TournamentLosses  int             `json:"tournament_losses"`
	Roster            []RosterEntry   `json:"roster"`
	Fights            []GymFightEntry `json:"fights"`
	Skills            SkillTotals     `json:"skills"`
	LastUpdated       time.Time       `json:"last_updated"`
}

// ApplyResult bumps the gym counter matching the result/bout-type pair.
func (g *GymRecord) ApplyResult(result FightResult, boutType BoutType) {
	if boutType == BoutTypeTournament {
		switch result {
		case ResultWin:
			g.TournamentWins++
		default:
			g.TournamentLosses++
		}
		return
	}
	switch result {
	case ResultWin:
		g.Wins++
	case ResultLoss:
		g.Losses++
	case ResultNoContest:
		g.NoContests++
	case ResultDisqualification:
		g.Disqualifications++
	}
}

// AddRosterEntry appends entry unless a fighter with the same id is already
// on the roster.
func (g *GymRecord) AddRosterEntry(entry RosterEntry) {
	for _, existing := range g.Roster {
		if existing.ID == entry.ID {
			return
		}
	}
	g.Roster = append(g.Roster, entry)
}

// Event is one event record from the event collection scan.
type Event struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"` // YYYY-MM-DD
	Promotion string `json:"promotion,omitempty"`
}

// ResultEntry is one fighter's result within one event, in the shape the
// accumulator consumes. Both the nested results document and the legacy
// per-participant path produce this.
type ResultEntry struct {
	FighterID   string      `json:"fighter_id,omitempty"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth string      `json:"date_of_birth,omitempty"`
	Age         int         `json:"age,omitempty"`
	Gym         string      `json:"gym"`
	Contact     string      `json:"contact,omitempty"`
	Result      FightResult `json:"result"`
	BoutType    BoutType    `json:"bout_type"`
	WeightClass int         `json:"weight_class"`
	OpponentID  string      `json:"opponent_id,omitempty"`
	Skills      SkillTotals `json:"skills"`
}

// LegacyParticipant is one row of the flat per-participant sub-collection
// used by events created before the nested results document existed.
type LegacyParticipant struct {
	FighterID   string      `json:"fighter_id,omitempty"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth string      `json:"date_of_birth,omitempty"`
	Age         int         `json:"age,omitempty"`
	Gym         string      `json:"gym"`
	Contact     string      `json:"contact,omitempty"`
	Result      string      `json:"result"`
	BoutType    string      `json:"bout_type,omitempty"`
	WeightClass int         `json:"weight_class"`
	OpponentID  string      `json:"opponent_id,omitempty"`
	Skills      SkillTotals `json:"skills"`
}

// RunSummary is the outcome of one rollup pipeline run.
type RunSummary struct {
	Success         bool   `json:"success"`
	WindowLabel     string `json:"window_label"`
	TotalRecords    int    `json:"total_records"`
	Participants    int    `json:"participants"`
	Gyms            int    `json:"gyms"`
	EventsProcessed int    `json:"events_processed"`
	EventsSkipped   int    `json:"events_skipped"`
	EntriesSkipped  int    `json:"entries_skipped"`
	SkippedGyms     int    `json:"skipped_gyms"`
	Message         string `json:"message"`
}

func insertSortedUnique(values []int, v int) []int {
	idx := sort.SearchInts(values, v)
	if idx < len(values) && values[idx] == v {
		return values
	}
	values = append(values, 0)
	copy(values[idx+1:], values[idx:])
	values[idx] = v
	return values
}
