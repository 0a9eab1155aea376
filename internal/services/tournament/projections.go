package tournament

import (
	"context"
	"sort"

	"github.com/KirkDiggler/robowars/internal/models"
)

// SortLeaderboard returns copies of the teams ordered by total descending, then id ascending
func SortLeaderboard(teams []*models.Team) []models.Team {
	sorted := make([]models.Team, 0, len(teams))
	for _, team := range teams {
		if team != nil {
			sorted = append(sorted, *team)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

// HasTie reports whether two adjacent teams of a sorted leaderboard share a total
func HasTie(sorted []models.Team) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Total == sorted[i-1].Total {
			return true
		}
	}
	return false
}

// BuildLeaderboard ranks the teams of a state
func BuildLeaderboard(state *models.Tournament) *models.Leaderboard {
	sorted := SortLeaderboard(state.Teams)

	board := &models.Leaderboard{
		Entries: make([]models.LeaderboardEntry, len(sorted)),
		HasTie:  HasTie(sorted),
	}
	for i, team := range sorted {
		tied := (i > 0 && sorted[i-1].Total == team.Total) ||
			(i+1 < len(sorted) && sorted[i+1].Total == team.Total)
		board.Entries[i] = models.LeaderboardEntry{
			Rank: i + 1,
			Team: team,
			Tied: tied,
		}
	}

	return board
}

// BuildRoundLeaderboard derives a round's ranked winners and losers, both capped at the
// round's match count. The current round falls back to the global ledger when it has none.
func BuildRoundLeaderboard(state *models.Tournament, round models.Round) *models.RoundLeaderboard {
	ledger, ok := state.RoundResults[round]
	if (!ok || ledger == nil) && round == currentRound(state) {
		ledger = state.MatchResults
	}
	if ledger == nil {
		ledger = models.NewResultLedger()
	}

	matchCount := state.MatchesInRound(round)

	return &models.RoundLeaderboard{
		Round:      round,
		Winners:    CapResults(RankResults(ledger.Winners), matchCount),
		Losers:     CapResults(RankResults(ledger.Losers), matchCount),
		MatchCount: matchCount,
	}
}

// SelectMatches splits matches into the running-order view, scanning in list order.
// An empty round selects every round.
func SelectMatches(matches []*models.Match, round models.Round) *models.MatchLineup {
	lineup := &models.MatchLineup{
		Upcoming:  []*models.Match{},
		Completed: []*models.Match{},
	}

	for _, m := range matches {
		if round != "" && m.RoundOrDefault() != round {
			continue
		}

		copied := *m
		switch m.Status {
		case models.MatchStatusLive:
			if lineup.Live == nil {
				lineup.Live = &copied
			}
		case models.MatchStatusNext:
			if lineup.Next == nil {
				lineup.Next = &copied
			}
		case models.MatchStatusUpcoming:
			lineup.Upcoming = append(lineup.Upcoming, &copied)
		case models.MatchStatusCompleted:
			lineup.Completed = append(lineup.Completed, &copied)
		}
	}

	return lineup
}

// GetLeaderboard returns the sorted team standings
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	output := &GetLeaderboardOutput{}
	s.read(func(state *models.Tournament) {
		output.Leaderboard = BuildLeaderboard(state)
	})
	return output, nil
}

// GetRoundLeaderboard returns a round's winners and losers
func (s *service) GetRoundLeaderboard(ctx context.Context, input *GetRoundLeaderboardInput) (*GetRoundLeaderboardOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.Round != "" && !input.Round.IsValid() {
		return nil, ErrInvalidRound
	}

	output := &GetRoundLeaderboardOutput{}
	s.read(func(state *models.Tournament) {
		round := input.Round
		if round == "" {
			round = currentRound(state)
		}
		output.Leaderboard = BuildRoundLeaderboard(state, round)
	})
	return output, nil
}

// GetMatchLineup returns the running-order view
func (s *service) GetMatchLineup(ctx context.Context, input *GetMatchLineupInput) (*GetMatchLineupOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.Round != "" && !input.Round.IsValid() {
		return nil, ErrInvalidRound
	}

	output := &GetMatchLineupOutput{}
	s.read(func(state *models.Tournament) {
		output.Lineup = SelectMatches(state.Matches, input.Round)
	})
	return output, nil
}
