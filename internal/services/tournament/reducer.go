package tournament

import (
	"context"
	"math"
	"strings"

	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/scoring"
)

// SubmitScore adds one judged round to a team's running totals
func (s *service) SubmitScore(ctx context.Context, input *SubmitScoreInput) (*SubmitScoreOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	damage := scoring.FilterScoring(input.Damage)
	aggression := scoring.FilterScoring(input.Aggression)
	control := scoring.FilterScoring(input.Control)

	output := &SubmitScoreOutput{}
	state, err := s.apply("submit_score", true, func(state *models.Tournament) error {
		if len(damage) == 0 && len(aggression) == 0 && len(control) == 0 {
			return ErrNoScoringEntries
		}

		team, ok := state.FindTeam(input.TeamID)
		if !ok {
			return ErrTeamNotFound
		}

		sub := s.calc.Submission(damage, aggression, control)

		team.PrevTotal = team.Total
		team.DamageTotal += sub.Damage
		team.AggrTotal += sub.Aggression
		team.CtrlTotal += sub.Control
		team.RecomputeTotal()
		team.Rounds++

		if !finite(sub.Total, team.DamageTotal, team.AggrTotal, team.CtrlTotal, team.Total) {
			return ErrInvalidScore
		}

		output.Submission = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// AdvanceMatchPointer completes the live match, puts the next match live and promotes the
// earliest upcoming match to next. Each step is skipped when it has no candidate.
func (s *service) AdvanceMatchPointer(ctx context.Context, input *AdvanceMatchPointerInput) (*AdvanceMatchPointerOutput, error) {
	output := &AdvanceMatchPointerOutput{}
	state, err := s.apply("advance_match_pointer", true, func(state *models.Tournament) error {
		live := firstWithStatus(state.Matches, models.MatchStatusLive)
		next := firstWithStatus(state.Matches, models.MatchStatusNext)
		upcoming := firstWithStatus(state.Matches, models.MatchStatusUpcoming)

		if live != nil {
			live.Status = models.MatchStatusCompleted
			output.Completed = live
		}
		if next != nil {
			next.Status = models.MatchStatusLive
			output.Live = next
		}
		if upcoming != nil {
			upcoming.Status = models.MatchStatusNext
			output.Next = upcoming
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// SetBye gives the bye to exactly one team, or clears it
func (s *service) SetBye(ctx context.Context, input *SetByeInput) (*SetByeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("set_bye", true, func(state *models.Tournament) error {
		if input.TeamID != nil {
			if _, ok := state.FindTeam(*input.TeamID); !ok {
				return ErrTeamNotFound
			}
		}
		assignBye(state, input.TeamID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetByeOutput{State: state}, nil
}

// AddMatch schedules a match under the next unused id
func (s *service) AddMatch(ctx context.Context, input *AddMatchInput) (*AddMatchOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	teamA := strings.TrimSpace(input.TeamA)
	teamB := strings.TrimSpace(input.TeamB)

	output := &AddMatchOutput{}
	state, err := s.apply("add_match", true, func(state *models.Tournament) error {
		if teamA == "" || teamB == "" || teamA == teamB {
			return ErrInvalidPairing
		}

		status := input.Status
		if status == "" {
			status = models.MatchStatusUpcoming
		}
		if !status.IsValid() {
			return ErrInvalidStatus
		}

		round := input.Round
		if round == "" {
			round = currentRound(state)
		}
		if !round.IsValid() {
			return ErrInvalidRound
		}

		match := &models.Match{
			ID:     state.AllocateMatchID(),
			TeamA:  teamA,
			TeamB:  teamB,
			Status: status,
			Round:  round,
		}
		state.Matches = append(state.Matches, match)

		copied := *match
		output.Match = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// RemoveMatch deletes a match; other ids and the counter are untouched
func (s *service) RemoveMatch(ctx context.Context, input *RemoveMatchInput) (*RemoveMatchOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("remove_match", true, func(state *models.Tournament) error {
		if _, ok := state.FindMatch(input.MatchID); !ok {
			return ErrMatchNotFound
		}

		// keep the counter at or above the removed id
		state.MatchCounter = state.HighestMatchNumber()

		kept := make([]*models.Match, 0, len(state.Matches))
		for _, m := range state.Matches {
			if m.ID != input.MatchID {
				kept = append(kept, m)
			}
		}
		state.Matches = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RemoveMatchOutput{State: state}, nil
}

// UpdateMatchStatus overwrites a match's status. It does not enforce a single live or next match.
func (s *service) UpdateMatchStatus(ctx context.Context, input *UpdateMatchStatusInput) (*UpdateMatchStatusOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("update_match_status", true, func(state *models.Tournament) error {
		if !input.Status.IsValid() {
			return ErrInvalidStatus
		}

		match, ok := state.FindMatch(input.MatchID)
		if !ok {
			return ErrMatchNotFound
		}

		match.Status = input.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateMatchStatusOutput{State: state}, nil
}

// SetRound sets the current round
func (s *service) SetRound(ctx context.Context, input *SetRoundInput) (*SetRoundOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("set_round", true, func(state *models.Tournament) error {
		if !input.Round.IsValid() {
			return ErrInvalidRound
		}
		state.CurrentRound = input.Round
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetRoundOutput{State: state}, nil
}

// SetProceedToMatches sets the proceed-to-matches flag
func (s *service) SetProceedToMatches(ctx context.Context, input *SetProceedToMatchesInput) (*SetProceedToMatchesOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("set_proceed_to_matches", true, func(state *models.Tournament) error {
		state.ShowProceedToMatches = input.Show
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetProceedToMatchesOutput{State: state}, nil
}

// SetCurrentMatch records the match being judged and its participants' start totals
func (s *service) SetCurrentMatch(ctx context.Context, input *SetCurrentMatchInput) (*SetCurrentMatchOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("set_current_match", true, func(state *models.Tournament) error {
		if input.MatchID == "" {
			setCurrentMatch(state, "", nil)
			return nil
		}
		if _, ok := state.FindMatch(input.MatchID); !ok {
			return ErrMatchNotFound
		}
		for _, total := range input.StartTotals {
			if !finite(total) {
				return ErrInvalidScore
			}
		}
		setCurrentMatch(state, input.MatchID, input.StartTotals)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetCurrentMatchOutput{State: state}, nil
}

// BeginMatch makes a match current using both teams' totals as start totals
func (s *service) BeginMatch(ctx context.Context, input *BeginMatchInput) (*BeginMatchOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	output := &BeginMatchOutput{}
	state, err := s.apply("begin_match", true, func(state *models.Tournament) error {
		_, teamA, teamB, err := matchTeams(state, input.MatchID)
		if err != nil {
			return err
		}

		totals := map[int]float64{
			teamA.ID: teamA.Total,
			teamB.ID: teamB.Total,
		}
		setCurrentMatch(state, input.MatchID, totals)

		output.StartTotals = totals
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// RecordMatchResult upserts a match's result into the global and round ledgers
func (s *service) RecordMatchResult(ctx context.Context, input *RecordMatchResultInput) (*RecordMatchResultOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("record_match_result", true, func(state *models.Tournament) error {
		if input.MatchID == "" {
			return ErrMatchNotFound
		}

		round := input.Round
		if round == "" {
			round = currentRound(state)
		}
		if !round.IsValid() {
			return ErrInvalidRound
		}

		for _, records := range [][]models.MatchResult{input.Winners, input.Losers} {
			for _, r := range records {
				if !finite(r.Score) {
					return ErrInvalidScore
				}
			}
		}

		recordResult(state, input.MatchID, round, input.Winners, input.Losers)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RecordMatchResultOutput{State: state}, nil
}

// EndMatch scores both teams by the totals they gained since the match began.
// The higher delta wins; equal deltas make both teams winners.
func (s *service) EndMatch(ctx context.Context, input *EndMatchInput) (*EndMatchOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	output := &EndMatchOutput{}
	state, err := s.apply("end_match", true, func(state *models.Tournament) error {
		match, teamA, teamB, err := matchTeams(state, input.MatchID)
		if err != nil {
			return err
		}

		resultA := models.MatchResult{MatchID: match.ID, TeamID: teamA.ID, Score: matchDelta(state, teamA)}
		resultB := models.MatchResult{MatchID: match.ID, TeamID: teamB.ID, Score: matchDelta(state, teamB)}

		switch {
		case resultA.Score > resultB.Score:
			output.Winners = []models.MatchResult{resultA}
			output.Losers = []models.MatchResult{resultB}
		case resultB.Score > resultA.Score:
			output.Winners = []models.MatchResult{resultB}
			output.Losers = []models.MatchResult{resultA}
		default:
			output.Winners = []models.MatchResult{resultA, resultB}
			output.Losers = []models.MatchResult{}
			output.Tie = true
		}

		recordResult(state, match.ID, match.RoundOrDefault(), output.Winners, output.Losers)
		match.Status = models.MatchStatusCompleted
		setCurrentMatch(state, "", nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// AddTeam adds a team with zeroed scores under the next free id
func (s *service) AddTeam(ctx context.Context, input *AddTeamInput) (*AddTeamOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	name := strings.TrimSpace(input.Name)

	output := &AddTeamOutput{}
	state, err := s.apply("add_team", true, func(state *models.Tournament) error {
		if name == "" {
			return ErrInvalidTeamName
		}

		id := 1
		for _, team := range state.Teams {
			if team.ID >= id {
				id = team.ID + 1
			}
		}

		team := models.NewTeam(id, name)
		state.Teams = append(state.Teams, team)
		state.ActiveTeams = models.AddID(state.ActiveTeams, id)

		copied := *team
		output.Team = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}

// RemoveTeam removes a team from the roster and the active set
func (s *service) RemoveTeam(ctx context.Context, input *RemoveTeamInput) (*RemoveTeamOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	state, err := s.apply("remove_team", true, func(state *models.Tournament) error {
		if _, ok := state.FindTeam(input.TeamID); !ok {
			return ErrTeamNotFound
		}

		kept := make([]*models.Team, 0, len(state.Teams))
		for _, team := range state.Teams {
			if team.ID != input.TeamID {
				kept = append(kept, team)
			}
		}
		state.Teams = kept
		state.ActiveTeams = models.RemoveID(state.ActiveTeams, input.TeamID)
		state.EliminatedTeams = models.RemoveID(state.EliminatedTeams, input.TeamID)

		if state.ByeTeamID != nil && *state.ByeTeamID == input.TeamID {
			state.ByeTeamID = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RemoveTeamOutput{State: state}, nil
}

// ResetAll restores the roster's initial tournament
func (s *service) ResetAll(ctx context.Context, input *ResetAllInput) (*ResetAllOutput, error) {
	state, err := s.apply("reset_all", true, func(state *models.Tournament) error {
		*state = *NewInitialState(s.roster)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ResetAllOutput{State: state}, nil
}

func firstWithStatus(matches []*models.Match, status models.MatchStatus) *models.Match {
	for _, m := range matches {
		if m.Status == status {
			return m
		}
	}
	return nil
}

func currentRound(state *models.Tournament) models.Round {
	if state.CurrentRound == "" {
		return models.RoundQualifiers
	}
	return state.CurrentRound
}

func assignBye(state *models.Tournament, teamID *int) {
	state.ByeTeamID = nil
	if teamID != nil {
		id := *teamID
		state.ByeTeamID = &id
	}
	for _, team := range state.Teams {
		team.HasBye = teamID != nil && team.ID == *teamID
	}
}

func setCurrentMatch(state *models.Tournament, matchID string, startTotals map[int]float64) {
	state.CurrentMatchID = matchID
	state.CurrentMatchStartTotals = make(map[int]float64, len(startTotals))
	for id, total := range startTotals {
		state.CurrentMatchStartTotals[id] = total
	}
}

func recordResult(state *models.Tournament, matchID string, round models.Round, winners, losers []models.MatchResult) {
	if state.MatchResults == nil {
		state.MatchResults = models.NewResultLedger()
	}
	state.MatchResults.Upsert(matchID, winners, losers)
	state.RoundLedger(round).Upsert(matchID, winners, losers)
}

// matchTeams resolves a match and its two teams by name
func matchTeams(state *models.Tournament, matchID string) (*models.Match, *models.Team, *models.Team, error) {
	match, ok := state.FindMatch(matchID)
	if !ok {
		return nil, nil, nil, ErrMatchNotFound
	}

	teamA, okA := state.FindTeamByName(match.TeamA)
	teamB, okB := state.FindTeamByName(match.TeamB)
	if !okA || !okB {
		return nil, nil, nil, ErrTeamNotFound
	}

	return match, teamA, teamB, nil
}

// matchDelta is the team's gain since its start total, to one decimal place
func matchDelta(state *models.Tournament, team *models.Team) float64 {
	delta := team.Total - state.StartTotal(team.ID)
	rounded := math.Round(delta*10) / 10
	if !finite(rounded) {
		return delta
	}
	return rounded
}

// finite reports whether every value can be persisted as JSON
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
