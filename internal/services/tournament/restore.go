package tournament

import (
	"github.com/KirkDiggler/robowars/internal/models"
)

// MergeSnapshot turns a persisted snapshot into a usable state. Roster names overwrite saved
// names by team id, roster teams missing from the snapshot are added with zeroed scores,
// missing collections are filled in and the match counter is recomputed.
// It reports false, returning the roster's initial state, when the snapshot has no teams.
func MergeSnapshot(saved *models.Tournament, roster []RosterTeam) (*models.Tournament, bool) {
	if saved == nil || len(saved.Teams) == 0 {
		return NewInitialState(roster), false
	}

	activeMissing := saved.ActiveTeams == nil
	state := saved.Clone()
	if len(state.Teams) == 0 {
		return NewInitialState(roster), false
	}

	names := make(map[int]string, len(roster))
	for _, team := range roster {
		names[team.ID] = team.Name
	}

	for _, team := range state.Teams {
		if name, ok := names[team.ID]; ok {
			team.Name = name
		}
		team.RecomputeTotal()
	}

	// roster teams the snapshot has never seen join with zeroed scores
	for _, entry := range roster {
		if _, ok := state.FindTeam(entry.ID); !ok {
			state.Teams = append(state.Teams, models.NewTeam(entry.ID, entry.Name))
		}
	}

	if !state.CurrentRound.IsValid() {
		state.CurrentRound = models.RoundQualifiers
	}
	if _, ok := state.RoundResults[models.RoundQualifiers]; !ok {
		state.RoundResults[models.RoundQualifiers] = models.NewResultLedger()
	}

	if activeMissing {
		for _, team := range state.Teams {
			state.ActiveTeams = append(state.ActiveTeams, team.ID)
		}
	}

	if state.ByeTeamID != nil {
		if _, ok := state.FindTeam(*state.ByeTeamID); !ok {
			state.ByeTeamID = nil
		}
	}

	state.MatchCounter = state.HighestMatchNumber()

	return state, true
}
