package tournament

import (
	"log/slog"

	"github.com/KirkDiggler/robowars/internal/metrics"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/scoring"
)

// Config holds configuration for the tournament store
type Config struct {
	// Roster is the canonical team list used by ResetAll and Restore; defaults to DefaultRoster
	Roster []RosterTeam

	// Calculator scores submissions; defaults to the reference table
	Calculator *scoring.Calculator

	// InitialState is adopted at startup when set; otherwise the roster's initial state is used
	InitialState *models.Tournament

	// Notifier is told about local state changes; may also be set later with SetNotifier
	Notifier Notifier

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// SubmitScoreInput contains one judged round for a team
type SubmitScoreInput struct {
	TeamID     int
	Damage     []scoring.Entry
	Aggression []scoring.Entry
	Control    []scoring.Entry
}

// SubmitScoreOutput contains the result of a score submission
type SubmitScoreOutput struct {
	State *models.Tournament

	// Submission is the points added to the team
	Submission scoring.Submission
}

type AdvanceMatchPointerInput struct {
}

// AdvanceMatchPointerOutput reports which matches moved; each may be nil
type AdvanceMatchPointerOutput struct {
	State     *models.Tournament
	Completed *models.Match
	Live      *models.Match
	Next      *models.Match
}

// SetByeInput names the team receiving the bye; nil clears it
type SetByeInput struct {
	TeamID *int
}

type SetByeOutput struct {
	State *models.Tournament
}

// AddMatchInput contains parameters for scheduling a match
type AddMatchInput struct {
	// TeamA and TeamB are team names
	TeamA string
	TeamB string

	// Status defaults to upcoming
	Status models.MatchStatus

	// Round defaults to the current round
	Round models.Round
}

type AddMatchOutput struct {
	State *models.Tournament
	Match *models.Match
}

type RemoveMatchInput struct {
	MatchID string
}

type RemoveMatchOutput struct {
	State *models.Tournament
}

type UpdateMatchStatusInput struct {
	MatchID string
	Status  models.MatchStatus
}

type UpdateMatchStatusOutput struct {
	State *models.Tournament
}

type SetRoundInput struct {
	Round models.Round
}

type SetRoundOutput struct {
	State *models.Tournament
}

type SetProceedToMatchesInput struct {
	Show bool
}

type SetProceedToMatchesOutput struct {
	State *models.Tournament
}

// SetCurrentMatchInput contains the match being judged; an empty MatchID clears it
type SetCurrentMatchInput struct {
	MatchID string

	// StartTotals maps team id to its total when judging started
	StartTotals map[int]float64
}

type SetCurrentMatchOutput struct {
	State *models.Tournament
}

type BeginMatchInput struct {
	MatchID string
}

type BeginMatchOutput struct {
	State       *models.Tournament
	StartTotals map[int]float64
}

// RecordMatchResultInput contains a match's result records
type RecordMatchResultInput struct {
	MatchID string
	Winners []models.MatchResult
	Losers  []models.MatchResult

	// Round defaults to the current round
	Round models.Round
}

type RecordMatchResultOutput struct {
	State *models.Tournament
}

type EndMatchInput struct {
	MatchID string
}

// EndMatchOutput contains the recorded result; a tie has two winners and no losers
type EndMatchOutput struct {
	State   *models.Tournament
	Winners []models.MatchResult
	Losers  []models.MatchResult
	Tie     bool
}

type AdvanceRoundInput struct {
	From models.Round
	To   models.Round
}

// AdvanceRoundOutput describes the generated bracket
type AdvanceRoundOutput struct {
	State *models.Tournament

	// Advancing is the new active set
	Advancing []int

	// Eliminated holds the teams knocked out by this advance
	Eliminated []int

	// Matches are the newly scheduled matches
	Matches []*models.Match
}

type AddTeamInput struct {
	Name string
}

type AddTeamOutput struct {
	State *models.Tournament
	Team  *models.Team
}

type RemoveTeamInput struct {
	TeamID int
}

type RemoveTeamOutput struct {
	State *models.Tournament
}

type ResetAllInput struct {
}

type ResetAllOutput struct {
	State *models.Tournament
}

type ReplaceStateInput struct {
	State *models.Tournament
}

type ReplaceStateOutput struct {
	State *models.Tournament
}

// RestoreInput carries a persisted snapshot; nil restores the initial state
type RestoreInput struct {
	State *models.Tournament
}

type RestoreOutput struct {
	State *models.Tournament

	// Defaulted is true when the snapshot was unusable and the initial state was adopted
	Defaulted bool
}

type GetStateInput struct {
}

type GetStateOutput struct {
	State *models.Tournament

	// Version counts the state changes applied since startup
	Version uint64
}

type GetLeaderboardInput struct {
}

type GetLeaderboardOutput struct {
	Leaderboard *models.Leaderboard
}

type GetRoundLeaderboardInput struct {
	// Round defaults to the current round
	Round models.Round
}

type GetRoundLeaderboardOutput struct {
	Leaderboard *models.RoundLeaderboard
}

type GetMatchLineupInput struct {
	// Round filters the lineup; empty means every round
	Round models.Round
}

type GetMatchLineupOutput struct {
	Lineup *models.MatchLineup
}
