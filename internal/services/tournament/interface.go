package tournament

import (
	"context"

	"github.com/KirkDiggler/robowars/internal/models"
)

// Service defines the command and read interface of the tournament store
type Service interface {
	// SubmitScore adds one judged round to a team's running totals
	SubmitScore(ctx context.Context, input *SubmitScoreInput) (*SubmitScoreOutput, error)

	// AdvanceMatchPointer moves the running order along by one match
	AdvanceMatchPointer(ctx context.Context, input *AdvanceMatchPointerInput) (*AdvanceMatchPointerOutput, error)

	// SetBye gives the bye to one team, or clears it
	SetBye(ctx context.Context, input *SetByeInput) (*SetByeOutput, error)

	// AddMatch schedules a new match with a fresh id
	AddMatch(ctx context.Context, input *AddMatchInput) (*AddMatchOutput, error)

	// RemoveMatch deletes a match
	RemoveMatch(ctx context.Context, input *RemoveMatchInput) (*RemoveMatchOutput, error)

	// UpdateMatchStatus overwrites one match's status
	UpdateMatchStatus(ctx context.Context, input *UpdateMatchStatusInput) (*UpdateMatchStatusOutput, error)

	// SetRound sets the current round
	SetRound(ctx context.Context, input *SetRoundInput) (*SetRoundOutput, error)

	// SetProceedToMatches sets the flag prompting displays to show the match list
	SetProceedToMatches(ctx context.Context, input *SetProceedToMatchesInput) (*SetProceedToMatchesOutput, error)

	// SetCurrentMatch records the match being judged and its start totals
	SetCurrentMatch(ctx context.Context, input *SetCurrentMatchInput) (*SetCurrentMatchOutput, error)

	// BeginMatch makes a match current, taking start totals from the teams' current totals
	BeginMatch(ctx context.Context, input *BeginMatchInput) (*BeginMatchOutput, error)

	// RecordMatchResult upserts a match's result into the global and round ledgers
	RecordMatchResult(ctx context.Context, input *RecordMatchResultInput) (*RecordMatchResultOutput, error)

	// EndMatch scores a match from the totals gained since it began and completes it
	EndMatch(ctx context.Context, input *EndMatchInput) (*EndMatchOutput, error)

	// AdvanceRound builds the next round's bracket from a round's results
	AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error)

	// AddTeam adds a team to the roster
	AddTeam(ctx context.Context, input *AddTeamInput) (*AddTeamOutput, error)

	// RemoveTeam removes a team from the roster
	RemoveTeam(ctx context.Context, input *RemoveTeamInput) (*RemoveTeamOutput, error)

	// ResetAll restores the initial tournament
	ResetAll(ctx context.Context, input *ResetAllInput) (*ResetAllOutput, error)

	// ReplaceState adopts a snapshot received from another instance
	ReplaceState(ctx context.Context, input *ReplaceStateInput) (*ReplaceStateOutput, error)

	// Restore adopts a persisted snapshot merged onto the configured roster
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// GetState returns a copy of the current state
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// GetLeaderboard returns the sorted team standings
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// GetRoundLeaderboard returns the winners and losers of a round
	GetRoundLeaderboard(ctx context.Context, input *GetRoundLeaderboardInput) (*GetRoundLeaderboardOutput, error)

	// GetMatchLineup returns the live, next, upcoming and completed matches
	GetMatchLineup(ctx context.Context, input *GetMatchLineupInput) (*GetMatchLineupOutput, error)
}

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/robowars/internal/services/tournament Notifier

// Notifier is told about every state change made by a local command.
// It is called with the store lock held and must not call back into the store.
type Notifier interface {
	StateChanged(state *models.Tournament)
}
