package rolluptypes

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGymSlug(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain name",
			raw:  "Lionheart Gym",
			want: "LIONHEART_GYM",
		},
		{
			name: "special characters fold to single underscores",
			raw:  "Team Alpha & Omega!!",
			want: "TEAM_ALPHA_OMEGA",
		},
		{
			name: "digits survive",
			raw:  "Muay Thai Gym #1",
			want: "MUAY_THAI_GYM_1",
		},
		{
			name: "leading and trailing junk trimmed",
			raw:  "  ***Golden Era***  ",
			want: "GOLDEN_ERA",
		},
		{
			name:    "empty input rejected",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "punctuation-only input rejected",
			raw:     "!!! --- !!!",
			wantErr: true,
		},
		{
			name:    "pathologically long input rejected",
			raw:     strings.Repeat("A", 150),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GymSlug(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnusableGymName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGymSlugDeterministic(t *testing.T) {
	first, err := GymSlug("Muay Thai Gym #1")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := GymSlug("Muay Thai Gym #1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	for _, r := range first {
		valid := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		assert.True(t, valid, "unexpected rune %q in slug", r)
	}
}

func TestParticipantKey(t *testing.T) {
	tests := []struct {
		name       string
		externalID string
		firstName  string
		lastName   string
		dob        string
		want       string
	}{
		{
			name:       "external id wins",
			externalID: "fighter-123",
			firstName:  "Sam",
			lastName:   "Silva",
			dob:        "1999-01-02",
			want:       "fighter-123",
		},
		{
			name:      "synthesized from name and iso dob",
			firstName: "Sam",
			lastName:  "Silva",
			dob:       "1999-03-07",
			want:      "SAMSILVA07031999",
		},
		{
			name:      "day-first inferred when first group exceeds twelve",
			firstName: "Sam",
			lastName:  "Silva",
			dob:       "25/06/1994",
			want:      "SAMSILVA25061994",
		},
		{
			name:      "month-first assumed otherwise",
			firstName: "Sam",
			lastName:  "Silva",
			dob:       "06/25/1994",
			want:      "SAMSILVA25061994",
		},
		{
			name:      "name noise stripped",
			firstName: " sam jr. ",
			lastName:  "o'silva",
			dob:       "1/2/1990",
			want:      "SAMJROSILVA02011990",
		},
		{
			name:      "unparseable dob yields no key",
			firstName: "Sam",
			lastName:  "Silva",
			dob:       "unknown",
			want:      "",
		},
		{
			name:     "missing name yields no key",
			lastName: "Silva",
			dob:      "1999-03-07",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParticipantKey(tt.externalID, tt.firstName, tt.lastName, tt.dob)
			assert.Equal(t, tt.want, got)
		})
	}
}
