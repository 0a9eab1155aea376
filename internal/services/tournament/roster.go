package tournament

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/robowars/internal/models"
)

// RosterTeam is a canonical team entry
type RosterTeam struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// DefaultRoster returns the fourteen-team event roster
func DefaultRoster() []RosterTeam {
	return []RosterTeam{
		{ID: 1, Name: "Team Quintet"},
		{ID: 2, Name: "No-Mercy"},
		{ID: 3, Name: "KILL-SWITCH"},
		{ID: 4, Name: "DRC SPIT"},
		{ID: 5, Name: "TORQX"},
		{ID: 6, Name: "OMERTÀ CIPHER"},
		{ID: 7, Name: "Torque Titans"},
		{ID: 8, Name: "AutoBotz"},
		{ID: 9, Name: "Exploit"},
		{ID: 10, Name: "Mechabots"},
		{ID: 11, Name: "Team Quintet 2"},
		{ID: 12, Name: "Byte Me"},
		{ID: 13, Name: "Team Shunya"},
		{ID: 14, Name: "Team Shunya2"},
	}
}

// ValidateRoster checks ids are positive and unique and names are set
func ValidateRoster(roster []RosterTeam) error {
	seen := make(map[int]bool, len(roster))
	for _, team := range roster {
		if team.ID <= 0 {
			return fmt.Errorf("%w: team id %d must be positive", ErrInvalidRoster, team.ID)
		}
		if seen[team.ID] {
			return fmt.Errorf("%w: duplicate team id %d", ErrInvalidRoster, team.ID)
		}
		if strings.TrimSpace(team.Name) == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidRoster, team.ID)
		}
		seen[team.ID] = true
	}
	return nil
}

// NewInitialState returns a fresh qualifiers-stage tournament for the roster
func NewInitialState(roster []RosterTeam) *models.Tournament {
	state := &models.Tournament{
		Teams:                   make([]*models.Team, 0, len(roster)),
		Matches:                 []*models.Match{},
		CurrentRound:            models.RoundQualifiers,
		CurrentMatchStartTotals: map[int]float64{},
		MatchResults:            models.NewResultLedger(),
		RoundResults: map[models.Round]*models.ResultLedger{
			models.RoundQualifiers: models.NewResultLedger(),
		},
		ActiveTeams:     make([]int, 0, len(roster)),
		EliminatedTeams: []int{},
	}

	for _, team := range roster {
		state.Teams = append(state.Teams, models.NewTeam(team.ID, team.Name))
		state.ActiveTeams = append(state.ActiveTeams, team.ID)
	}

	return state
}
