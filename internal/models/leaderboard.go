package models

// LeaderboardEntry is one row of the sorted team leaderboard
type LeaderboardEntry struct {
	// Rank is the 1-based position in the sorted leaderboard
	Rank int

	// Team is a copy of the team at read time
	Team Team

	// Tied indicates the team shares its total with an adjacent entry
	Tied bool
}

// Leaderboard represents the current standings
type Leaderboard struct {
	// Entries are ordered by total descending, then team id ascending
	Entries []LeaderboardEntry

	// HasTie is true when any two adjacent entries share a total
	HasTie bool
}

// RoundLeaderboard is the deduplicated, capped winners and losers view of one round
type RoundLeaderboard struct {
	Round   Round
	Winners []MatchResult
	Losers  []MatchResult

	// MatchCount is the number of matches scheduled for the round
	MatchCount int
}

// MatchLineup is the running-order view used by the match and projector displays
type MatchLineup struct {
	Live      *Match
	Next      *Match
	Upcoming  []*Match
	Completed []*Match
}
