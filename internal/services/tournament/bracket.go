package tournament

import (
	"context"
	"slices"
	"sort"

	"github.com/KirkDiggler/robowars/internal/models"
)

// Pairing is a scheduled pair of team ids
type Pairing struct {
	TeamA int
	TeamB int
}

// BracketPlan is the outcome of a round: who advances and who meets whom next
type BracketPlan struct {
	// Advancing lists advancing teams in seed order
	Advancing []int

	// Pairings lists next-round matches in schedule order
	Pairings []Pairing
}

// DedupeByTeam keeps each team's highest-scoring record, in the order teams were first seen
func DedupeByTeam(results []models.MatchResult) []models.MatchResult {
	index := make(map[int]int, len(results))
	deduped := make([]models.MatchResult, 0, len(results))

	for _, r := range results {
		i, seen := index[r.TeamID]
		if !seen {
			index[r.TeamID] = len(deduped)
			deduped = append(deduped, r)
			continue
		}
		if r.Score > deduped[i].Score {
			deduped[i] = r
		}
	}

	return deduped
}

// RankResults dedupes records per team and sorts them by score, highest first.
// Equal scores keep their first-seen order.
func RankResults(results []models.MatchResult) []models.MatchResult {
	ranked := DedupeByTeam(results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// CapResults truncates results to limit when limit is positive
func CapResults(results []models.MatchResult, limit int) []models.MatchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// SnakePairs pairs seeds first against last, second against second-last and so on.
// An odd middle seed is left unpaired.
func SnakePairs(seeds []int) []Pairing {
	pairs := make([]Pairing, 0, len(seeds)/2)
	for i := 0; i < len(seeds)/2; i++ {
		pairs = append(pairs, Pairing{TeamA: seeds[i], TeamB: seeds[len(seeds)-1-i]})
	}
	return pairs
}

// PlanBracket decides advancement from a round's ledger. Winners are capped at the number of
// matches the round had. Qualifiers also advance the best loser as a wildcard, who meets the top
// winner; later rounds advance winners only.
func PlanBracket(from models.Round, ledger *models.ResultLedger, matchCount int) BracketPlan {
	if ledger == nil {
		ledger = models.NewResultLedger()
	}

	winners := CapResults(RankResults(ledger.Winners), matchCount)
	losers := RankResults(ledger.Losers)

	plan := BracketPlan{
		Advancing: []int{},
		Pairings:  []Pairing{},
	}
	for _, w := range winners {
		plan.Advancing = models.AddID(plan.Advancing, w.TeamID)
	}

	seeds := make([]int, 0, len(winners))
	for _, w := range winners {
		seeds = append(seeds, w.TeamID)
	}

	if from != models.RoundQualifiers {
		plan.Pairings = SnakePairs(seeds)
		return plan
	}

	// the wildcard is the best loser that is not already through as a winner
	for _, l := range losers {
		if slices.Contains(plan.Advancing, l.TeamID) {
			continue
		}
		plan.Advancing = models.AddID(plan.Advancing, l.TeamID)
		if len(seeds) > 0 {
			plan.Pairings = append(plan.Pairings, Pairing{TeamA: seeds[0], TeamB: l.TeamID})
		}
		break
	}
	if len(seeds) > 0 {
		plan.Pairings = append(plan.Pairings, SnakePairs(seeds[1:])...)
	}

	return plan
}

// AdvanceRound closes a round and schedules the next one
func (s *service) AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	output := &AdvanceRoundOutput{}
	state, err := s.apply("advance_round", true, func(state *models.Tournament) error {
		if !input.From.IsValid() || !input.To.IsValid() {
			return ErrInvalidRound
		}

		plan := PlanBracket(input.From, state.RoundResults[input.From], state.MatchesInRound(input.From))

		advancing := append([]int{}, plan.Advancing...)
		advancingSet := make(map[int]bool, len(advancing))
		for _, id := range advancing {
			advancingSet[id] = true
		}

		// an active bye holder skips elimination and carries into the next round
		if state.ByeTeamID != nil && state.IsActive(*state.ByeTeamID) && !advancingSet[*state.ByeTeamID] {
			advancing = append(advancing, *state.ByeTeamID)
			advancingSet[*state.ByeTeamID] = true
		}

		eliminated := []int{}
		for _, team := range state.Teams {
			if state.IsActive(team.ID) && !advancingSet[team.ID] {
				eliminated = append(eliminated, team.ID)
				state.EliminatedTeams = models.AddID(state.EliminatedTeams, team.ID)
			}
		}

		matches := []*models.Match{}
		for _, pair := range plan.Pairings {
			teamA, okA := state.FindTeam(pair.TeamA)
			teamB, okB := state.FindTeam(pair.TeamB)
			if !okA || !okB {
				continue
			}
			match := &models.Match{
				ID:     state.AllocateMatchID(),
				TeamA:  teamA.Name,
				TeamB:  teamB.Name,
				Status: models.MatchStatusUpcoming,
				Round:  input.To,
			}
			state.Matches = append(state.Matches, match)
			copied := *match
			matches = append(matches, &copied)
		}

		for _, team := range state.Teams {
			team.ResetScores()
		}

		assignBye(state, nil)
		state.ActiveTeams = advancing
		state.RoundResults[input.To] = models.NewResultLedger()
		state.CurrentRound = input.To
		setCurrentMatch(state, "", nil)
		state.ShowProceedToMatches = true

		output.Advancing = append([]int{}, advancing...)
		output.Eliminated = eliminated
		output.Matches = matches
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.State = state
	return output, nil
}
