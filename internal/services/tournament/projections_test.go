package tournament

import (
	"math/rand"
	"testing"

	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortLeaderboardOrdersByTotalThenID(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		teams := make([]*models.Team, 0, 12)
		for id := 1; id <= 12; id++ {
			teams = append(teams, &models.Team{ID: id, Total: float64(random.Intn(4) * 10)})
		}
		random.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })

		sorted := SortLeaderboard(teams)
		require.Len(t, sorted, len(teams))
		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			assert.True(t, prev.Total > cur.Total || (prev.Total == cur.Total && prev.ID < cur.ID),
				"run %d: %d(%v) before %d(%v)", run, prev.ID, prev.Total, cur.ID, cur.Total)
		}
	}
}

func TestHasTie(t *testing.T) {
	assert.False(t, HasTie(nil))
	assert.False(t, HasTie([]models.Team{{ID: 1, Total: 3}, {ID: 2, Total: 2}}))
	assert.True(t, HasTie([]models.Team{{ID: 1, Total: 3}, {ID: 2, Total: 2}, {ID: 3, Total: 2}}))
}

func TestBuildLeaderboard(t *testing.T) {
	state := &models.Tournament{
		Teams: []*models.Team{
			{ID: 3, Total: 10},
			{ID: 1, Total: 25},
			{ID: 2, Total: 10},
		},
	}

	board := BuildLeaderboard(state)

	assert.True(t, board.HasTie)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, 1, board.Entries[0].Team.ID)
	assert.False(t, board.Entries[0].Tied)
	assert.Equal(t, 2, board.Entries[1].Team.ID)
	assert.True(t, board.Entries[1].Tied)
	assert.Equal(t, 3, board.Entries[2].Team.ID)
	assert.Equal(t, 3, board.Entries[2].Rank)
}

func TestBuildRoundLeaderboardFallsBackForCurrentRound(t *testing.T) {
	state := &models.Tournament{
		CurrentRound: models.RoundQuarterFinals,
		Matches: []*models.Match{
			{ID: "m1", Round: models.RoundQuarterFinals},
		},
		MatchResults: &models.ResultLedger{
			Winners: []models.MatchResult{{MatchID: "m1", TeamID: 4, Score: 3}, {MatchID: "m0", TeamID: 5, Score: 9}},
			Losers:  []models.MatchResult{{MatchID: "m1", TeamID: 6, Score: 1}, {MatchID: "m0", TeamID: 7, Score: 2}},
		},
		RoundResults: map[models.Round]*models.ResultLedger{},
	}

	board := BuildRoundLeaderboard(state, models.RoundQuarterFinals)
	assert.Equal(t, 1, board.MatchCount)
	assert.Equal(t, []int{5}, resultTeams(board.Winners))
	assert.Equal(t, []int{7}, resultTeams(board.Losers))

	other := BuildRoundLeaderboard(state, models.RoundFinals)
	assert.Empty(t, other.Winners)
	assert.Empty(t, other.Losers)
}

func TestSelectMatches(t *testing.T) {
	matches := []*models.Match{
		{ID: "m1", Status: models.MatchStatusCompleted, Round: models.RoundQualifiers},
		{ID: "m2", Status: models.MatchStatusLive, Round: models.RoundQualifiers},
		{ID: "m3", Status: models.MatchStatusLive},
		{ID: "m4", Status: models.MatchStatusNext, Round: models.RoundSemiFinals},
		{ID: "m5", Status: models.MatchStatusUpcoming, Round: models.RoundSemiFinals},
		{ID: "m6", Status: models.MatchStatusUpcoming, Round: models.RoundQualifiers},
	}

	all := SelectMatches(matches, "")
	assert.Equal(t, "m2", all.Live.ID)
	assert.Equal(t, "m4", all.Next.ID)
	assert.Equal(t, []string{"m5", "m6"}, matchIDs(all.Upcoming))
	assert.Equal(t, []string{"m1"}, matchIDs(all.Completed))

	semis := SelectMatches(matches, models.RoundSemiFinals)
	assert.Nil(t, semis.Live)
	assert.Equal(t, "m4", semis.Next.ID)
	assert.Equal(t, []string{"m5"}, matchIDs(semis.Upcoming))
	assert.Empty(t, semis.Completed)

	// unset rounds count as qualifiers
	qualifiers := SelectMatches(matches, models.RoundQualifiers)
	assert.Equal(t, "m2", qualifiers.Live.ID)
	assert.Nil(t, qualifiers.Next)

	all.Live.Status = models.MatchStatusCompleted
	assert.Equal(t, models.MatchStatusLive, matches[1].Status)
}

func matchIDs(matches []*models.Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}
