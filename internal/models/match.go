package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchStatus represents where a match sits in the running order
type MatchStatus string

const (
	// MatchStatusUpcoming indicates a match that is scheduled but not yet on deck
	MatchStatusUpcoming MatchStatus = "upcoming"

	// MatchStatusNext indicates the match that is on deck
	MatchStatusNext MatchStatus = "next"

	// MatchStatusLive indicates the match currently in the arena
	MatchStatusLive MatchStatus = "live"

	// MatchStatusCompleted indicates a finished match
	MatchStatusCompleted MatchStatus = "completed"
)

// IsValid reports whether the status is one of the known match statuses
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusNext, MatchStatusLive, MatchStatusCompleted:
		return true
	}
	return false
}

// Round represents a bracket stage
type Round string

const (
	RoundQualifiers    Round = "qualifiers"
	RoundQuarterFinals Round = "quarter-finals"
	RoundSemiFinals    Round = "semi-finals"
	RoundFinals        Round = "finals"
)

// Rounds lists the bracket stages in order
var Rounds = []Round{RoundQualifiers, RoundQuarterFinals, RoundSemiFinals, RoundFinals}

// IsValid reports whether the round is one of the known bracket stages
func (r Round) IsValid() bool {
	switch r {
	case RoundQualifiers, RoundQuarterFinals, RoundSemiFinals, RoundFinals:
		return true
	}
	return false
}

// Next returns the stage after r, or false when r is the finals
func (r Round) Next() (Round, bool) {
	for i, round := range Rounds {
		if round == r && i+1 < len(Rounds) {
			return Rounds[i+1], true
		}
	}
	return "", false
}

// Match represents a scheduled pairing between two teams
type Match struct {
	// ID is "m<N>"; N is never reused
	ID string `json:"id"`

	// TeamA is the name of the first team at scheduling time
	TeamA string `json:"teamA"`

	// TeamB is the name of the second team at scheduling time
	TeamB string `json:"teamB"`

	// Status is the match's place in the running order
	Status MatchStatus `json:"status"`

	// Round is the bracket stage the match belongs to
	Round Round `json:"round"`
}

// RoundOrDefault returns the match round, treating an empty round as qualifiers
func (m *Match) RoundOrDefault() Round {
	if m.Round == "" {
		return RoundQualifiers
	}
	return m.Round
}

// MatchID formats a match number into its id
func MatchID(n int) string {
	return fmt.Sprintf("m%d", n)
}

// MatchNumber parses the numeric suffix of a match id
func MatchNumber(id string) (int, bool) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(id, "m"), "M")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}
