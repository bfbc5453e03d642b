package rollupservice

import (
	"errors"
	"sort"
	"time"

	rolluptypes "github.com/ringside-labs/fightstats/app/modules/rollup/domain/types"
)

// RecordAccumulator folds result entries into in-memory fighter and gym
// aggregates. One accumulator serves one run; records are rebuilt from
// scratch each time, never merged with prior persisted state.
type RecordAccumulator struct {
	participants map[string]*rolluptypes.ParticipantRecord
	gyms         map[string]*rolluptypes.GymRecord

	skippedGyms    map[string]struct{}
	skippedEntries int

	now func() time.Time
}

// NewRecordAccumulator returns an empty accumulator.
func NewRecordAccumulator() *RecordAccumulator {
	return &RecordAccumulator{
		participants: make(map[string]*rolluptypes.ParticipantRecord),
		gyms:         make(map[string]*rolluptypes.GymRecord),
		skippedGyms:  make(map[string]struct{}),
		now:          time.Now,
	}
}

// Fold merges one result entry into the running aggregates. The fold is
// deterministic and order-independent apart from the Fights insertion order.
// Entries without a derivable fighter key are counted and dropped; entries
// whose gym name is unusable still update the fighter side, only the gym
// fold is skipped.
func (a *RecordAccumulator) Fold(event rolluptypes.Event, entry rolluptypes.ResultEntry) {
	key := rolluptypes.ParticipantKey(entry.FighterID, entry.FirstName, entry.LastName, entry.DateOfBirth)
	if key == "" {
		a.skippedEntries++
		return
	}

	fight := rolluptypes.FightEntry{
		EventID:     event.ID,
		EventName:   event.Name,
		Date:        event.Date,
		Result:      entry.Result,
		WeightClass: entry.WeightClass,
		OpponentID:  entry.OpponentID,
		BoutType:    entry.BoutType,
		Skills:      entry.Skills,
	}

	participant := a.participant(key, entry)
	participant.ApplyResult(entry.Result, entry.BoutType)
	participant.Skills.Add(entry.Skills)
	participant.Fights = append(participant.Fights, fight)
	if entry.WeightClass > 0 {
		participant.AddWeightClass(entry.WeightClass)
	}
	participant.LastUpdated = a.now()

	slug, err := rolluptypes.GymSlug(entry.Gym)
	if err != nil {
		if errors.Is(err, rolluptypes.ErrUnusableGymName) {
			a.skippedGyms[entry.Gym] = struct{}{}
		}
		return
	}

	gym := a.gym(slug, entry)
	gym.ApplyResult(entry.Result, entry.BoutType)
	gym.Skills.Add(entry.Skills)
	gym.Fights = append(gym.Fights, rolluptypes.GymFightEntry{
		FightEntry:  fight,
		FighterID:   key,
		FighterName: participant.FirstName + " " + participant.LastName,
	})
	gym.AddRosterEntry(rolluptypes.RosterEntry{
		ID:        key,
		FirstName: participant.FirstName,
		LastName:  participant.LastName,
		Contact:   participant.Contact,
	})
	gym.LastUpdated = a.now()
}

// participant returns the record for key, creating it with zeroed counters
// on first sight.
func (a *RecordAccumulator) participant(key string, entry rolluptypes.ResultEntry) *rolluptypes.ParticipantRecord {
	if record, ok := a.participants[key]; ok {
		return record
	}
	record := &rolluptypes.ParticipantRecord{
		ID:        key,
		FirstName: rolluptypes.NormalizeName(entry.FirstName),
		LastName:  rolluptypes.NormalizeName(entry.LastName),
		Gym:       rolluptypes.NormalizeName(entry.Gym),
		Contact:   rolluptypes.NormalizeContact(entry.Contact),
	}
	a.participants[key] = record
	return record
}

// gym returns the record for slug, creating it on first sight.
func (a *RecordAccumulator) gym(slug string, entry rolluptypes.ResultEntry) *rolluptypes.GymRecord {
	if record, ok := a.gyms[slug]; ok {
		return record
	}
	record := &rolluptypes.GymRecord{
		ID:          slug,
		DisplayName: rolluptypes.NormalizeName(entry.Gym),
	}
	a.gyms[slug] = record
	return record
}

// Participants returns the fighter aggregates keyed by fighter id.
func (a *RecordAccumulator) Participants() map[string]*rolluptypes.ParticipantRecord {
	return a.participants
}

// Gyms returns the gym aggregates keyed by slug.
func (a *RecordAccumulator) Gyms() map[string]*rolluptypes.GymRecord {
	return a.gyms
}

// SkippedEntries is the count of entries dropped for lack of a fighter key.
func (a *RecordAccumulator) SkippedEntries() int {
	return a.skippedEntries
}

// SkippedGymNames returns the distinct raw gym names that failed slug
// derivation this run, sorted for stable reporting.
func (a *RecordAccumulator) SkippedGymNames() []string {
	names := make([]string, 0, len(a.skippedGyms))
	for name := range a.skippedGyms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
