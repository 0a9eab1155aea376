package tournament

import (
	"testing"

	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDedupeByTeam(t *testing.T) {
	results := []models.MatchResult{
		{MatchID: "m1", TeamID: 4, Score: 10},
		{MatchID: "m2", TeamID: 2, Score: 12},
		{MatchID: "m3", TeamID: 4, Score: 18},
		{MatchID: "m4", TeamID: 2, Score: 12},
	}

	assert.Equal(t, []models.MatchResult{
		{MatchID: "m3", TeamID: 4, Score: 18},
		{MatchID: "m2", TeamID: 2, Score: 12},
	}, DedupeByTeam(results))
}

func TestRankResultsIsStable(t *testing.T) {
	results := []models.MatchResult{
		{TeamID: 1, Score: 5},
		{TeamID: 2, Score: 9},
		{TeamID: 3, Score: 5},
		{TeamID: 4, Score: 9},
	}

	assert.Equal(t, []int{2, 4, 1, 3}, resultTeams(RankResults(results)))
}

func TestCapResults(t *testing.T) {
	results := []models.MatchResult{{TeamID: 1}, {TeamID: 2}, {TeamID: 3}}

	assert.Len(t, CapResults(results, 2), 2)
	assert.Len(t, CapResults(results, 0), 3)
	assert.Len(t, CapResults(results, 5), 3)
}

func TestSnakePairs(t *testing.T) {
	tests := []struct {
		name  string
		seeds []int
		want  []Pairing
	}{
		{"empty", nil, []Pairing{}},
		{"single seed is unpaired", []int{7}, []Pairing{}},
		{"odd leaves middle", []int{2, 3, 4}, []Pairing{{2, 4}}},
		{"even", []int{1, 2, 3, 4, 5, 6}, []Pairing{{1, 6}, {2, 5}, {3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakePairs(tt.seeds))
		})
	}
}

func TestPlanBracket(t *testing.T) {
	ledger := &models.ResultLedger{
		Winners: []models.MatchResult{
			{TeamID: 10, Score: 40},
			{TeamID: 11, Score: 30},
			{TeamID: 12, Score: 20},
			{TeamID: 13, Score: 10},
		},
		Losers: []models.MatchResult{
			{TeamID: 20, Score: 12},
			{TeamID: 21, Score: 35},
		},
	}

	tests := []struct {
		name       string
		from       models.Round
		matchCount int
		want       BracketPlan
	}{
		{
			name:       "qualifiers add the best loser against the top winner",
			from:       models.RoundQualifiers,
			matchCount: 4,
			want: BracketPlan{
				Advancing: []int{10, 11, 12, 13, 21},
				Pairings:  []Pairing{{10, 21}, {11, 13}},
			},
		},
		{
			name:       "qualifiers cap winners at the match count",
			from:       models.RoundQualifiers,
			matchCount: 3,
			want: BracketPlan{
				Advancing: []int{10, 11, 12, 21},
				Pairings:  []Pairing{{10, 21}, {11, 12}},
			},
		},
		{
			name:       "later rounds drop losers",
			from:       models.RoundQuarterFinals,
			matchCount: 0,
			want: BracketPlan{
				Advancing: []int{10, 11, 12, 13},
				Pairings:  []Pairing{{10, 13}, {11, 12}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanBracket(tt.from, ledger, tt.matchCount))
		})
	}
}

func TestPlanBracketWithoutResults(t *testing.T) {
	plan := PlanBracket(models.RoundQualifiers, nil, 4)
	assert.Empty(t, plan.Advancing)
	assert.Empty(t, plan.Pairings)

	plan = PlanBracket(models.RoundQualifiers, &models.ResultLedger{
		Losers: []models.MatchResult{{TeamID: 3, Score: 1}},
	}, 4)
	assert.Equal(t, []int{3}, plan.Advancing)
	assert.Empty(t, plan.Pairings)
}

func TestPlanBracketWildcardSkipsAdvancingWinner(t *testing.T) {
	// team 10 won one qualifier and lost another with the best losing score
	ledger := &models.ResultLedger{
		Winners: []models.MatchResult{
			{MatchID: "m1", TeamID: 10, Score: 40},
			{MatchID: "m2", TeamID: 11, Score: 30},
			{MatchID: "m3", TeamID: 12, Score: 20},
		},
		Losers: []models.MatchResult{
			{MatchID: "m4", TeamID: 10, Score: 38},
			{MatchID: "m1", TeamID: 21, Score: 15},
		},
	}

	plan := PlanBracket(models.RoundQualifiers, ledger, 4)

	assert.Equal(t, []int{10, 11, 12, 21}, plan.Advancing)
	assert.Equal(t, []Pairing{{10, 21}, {11, 12}}, plan.Pairings)
	for _, p := range plan.Pairings {
		assert.NotEqual(t, p.TeamA, p.TeamB)
	}

	// nobody left to take the wildcard
	plan = PlanBracket(models.RoundQualifiers, &models.ResultLedger{
		Winners: []models.MatchResult{{TeamID: 10, Score: 40}, {TeamID: 11, Score: 30}},
		Losers:  []models.MatchResult{{TeamID: 10, Score: 12}},
	}, 2)
	assert.Equal(t, []int{10, 11}, plan.Advancing)
	assert.Empty(t, plan.Pairings)
}
