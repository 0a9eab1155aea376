package models

// MatchResult records one team's score in a finished match
type MatchResult struct {
	// MatchID is the id of the match the result belongs to
	MatchID string `json:"matchId"`

	// TeamID is the id of the team the result belongs to
	TeamID int `json:"teamId"`

	// Score is the team's score delta for the match
	Score float64 `json:"score"`
}

// ResultLedger holds winner and loser records
type ResultLedger struct {
	Winners []MatchResult `json:"winners"`
	Losers  []MatchResult `json:"losers"`
}

// NewResultLedger returns an empty ledger with non-nil slices
func NewResultLedger() *ResultLedger {
	return &ResultLedger{
		Winners: []MatchResult{},
		Losers:  []MatchResult{},
	}
}

// Upsert drops any records for matchID and appends the new ones
func (l *ResultLedger) Upsert(matchID string, winners, losers []MatchResult) {
	l.Winners = append(withoutMatch(l.Winners, matchID), winners...)
	l.Losers = append(withoutMatch(l.Losers, matchID), losers...)
}

// Clone returns a deep copy of the ledger
func (l *ResultLedger) Clone() *ResultLedger {
	if l == nil {
		return NewResultLedger()
	}
	return &ResultLedger{
		Winners: append([]MatchResult{}, l.Winners...),
		Losers:  append([]MatchResult{}, l.Losers...),
	}
}

func withoutMatch(records []MatchResult, matchID string) []MatchResult {
	kept := make([]MatchResult, 0, len(records))
	for _, r := range records {
		if r.MatchID != matchID {
			kept = append(kept, r)
		}
	}
	return kept
}
