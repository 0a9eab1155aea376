package models

// Tournament is the complete state of one tournament and the unit of persistence and sync
type Tournament struct {
	// Teams is the roster with running scores
	Teams []*Team `json:"teams"`

	// Matches is the running order across every round
	Matches []*Match `json:"matches"`

	// ByeTeamID is the team holding the bye, if any
	ByeTeamID *int `json:"byeTeamId"`

	// CurrentRound is the active bracket stage
	CurrentRound Round `json:"currentRound"`

	// CurrentMatchID is the match being judged; empty when none
	CurrentMatchID string `json:"currentMatchId"`

	// CurrentMatchStartTotals maps team id to its total when judging started
	CurrentMatchStartTotals map[int]float64 `json:"currentMatchStartTotals"`

	// MatchResults is the tournament-wide result ledger
	MatchResults *ResultLedger `json:"matchResults"`

	// RoundResults is the result ledger for each round, used for advancement
	RoundResults map[Round]*ResultLedger `json:"roundResults"`

	// ActiveTeams holds the ids of teams still alive in the bracket
	ActiveTeams []int `json:"activeTeams"`

	// EliminatedTeams holds the ids of teams knocked out of the bracket
	EliminatedTeams []int `json:"eliminatedTeams"`

	// ShowProceedToMatches asks the display layer to prompt navigation to matches
	ShowProceedToMatches bool `json:"showProceedToMatches"`

	// MatchCounter is the highest match number ever allocated
	MatchCounter int `json:"matchCounter"`
}

// FindTeam returns the team with the given id
func (t *Tournament) FindTeam(id int) (*Team, bool) {
	for _, team := range t.Teams {
		if team.ID == id {
			return team, true
		}
	}
	return nil, false
}

// FindTeamByName returns the first team with the given name
func (t *Tournament) FindTeamByName(name string) (*Team, bool) {
	for _, team := range t.Teams {
		if team.Name == name {
			return team, true
		}
	}
	return nil, false
}

// FindMatch returns the match with the given id
func (t *Tournament) FindMatch(id string) (*Match, bool) {
	for _, m := range t.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// MatchesInRound counts the matches scheduled for a round
func (t *Tournament) MatchesInRound(round Round) int {
	count := 0
	for _, m := range t.Matches {
		if m.RoundOrDefault() == round {
			count++
		}
	}
	return count
}

// HighestMatchNumber returns the larger of the counter and every live match id suffix
func (t *Tournament) HighestMatchNumber() int {
	highest := t.MatchCounter
	for _, m := range t.Matches {
		if n, ok := MatchNumber(m.ID); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// AllocateMatchID reserves the next match id
func (t *Tournament) AllocateMatchID() string {
	t.MatchCounter = t.HighestMatchNumber() + 1
	return MatchID(t.MatchCounter)
}

// StartTotal returns the recorded start total for a team, defaulting to zero
func (t *Tournament) StartTotal(teamID int) float64 {
	return t.CurrentMatchStartTotals[teamID]
}

// RoundLedger returns the ledger for a round, creating it when missing
func (t *Tournament) RoundLedger(round Round) *ResultLedger {
	if t.RoundResults == nil {
		t.RoundResults = make(map[Round]*ResultLedger)
	}
	ledger, ok := t.RoundResults[round]
	if !ok || ledger == nil {
		ledger = NewResultLedger()
		t.RoundResults[round] = ledger
	}
	return ledger
}

// IsActive reports whether a team is still alive in the bracket
func (t *Tournament) IsActive(teamID int) bool {
	return containsID(t.ActiveTeams, teamID)
}

// Clone returns a deep copy that shares no memory with t. Nil teams and matches are dropped
// and nil collections come back empty.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}

	clone := &Tournament{
		CurrentRound:         t.CurrentRound,
		CurrentMatchID:       t.CurrentMatchID,
		ShowProceedToMatches: t.ShowProceedToMatches,
		MatchCounter:         t.MatchCounter,
		MatchResults:         t.MatchResults.Clone(),
		ActiveTeams:          append([]int{}, t.ActiveTeams...),
		EliminatedTeams:      append([]int{}, t.EliminatedTeams...),
	}

	clone.Teams = make([]*Team, 0, len(t.Teams))
	for _, team := range t.Teams {
		if team == nil {
			continue
		}
		copied := *team
		clone.Teams = append(clone.Teams, &copied)
	}

	clone.Matches = make([]*Match, 0, len(t.Matches))
	for _, m := range t.Matches {
		if m == nil {
			continue
		}
		copied := *m
		clone.Matches = append(clone.Matches, &copied)
	}

	if t.ByeTeamID != nil {
		id := *t.ByeTeamID
		clone.ByeTeamID = &id
	}

	clone.CurrentMatchStartTotals = make(map[int]float64, len(t.CurrentMatchStartTotals))
	for id, total := range t.CurrentMatchStartTotals {
		clone.CurrentMatchStartTotals[id] = total
	}

	clone.RoundResults = make(map[Round]*ResultLedger, len(t.RoundResults))
	for round, ledger := range t.RoundResults {
		clone.RoundResults[round] = ledger.Clone()
	}

	return clone
}

// AddID appends id to ids unless already present
func AddID(ids []int, id int) []int {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

// RemoveID returns ids without id
func RemoveID(ids []int, id int) []int {
	kept := make([]int, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

func containsID(ids []int, id int) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
