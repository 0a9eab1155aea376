package tournament

// TournamentError is a custom error type for rejected store commands.
// A command that returns one has left the state untouched.
type TournamentError string

// Error implements the error interface
func (e TournamentError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig        TournamentError = "config cannot be nil"
	ErrNilInput         TournamentError = "input cannot be nil"
	ErrNilState         TournamentError = "state cannot be nil"
	ErrTeamNotFound     TournamentError = "team not found"
	ErrMatchNotFound    TournamentError = "match not found"
	ErrInvalidPairing   TournamentError = "a match needs two different teams"
	ErrInvalidStatus    TournamentError = "invalid match status"
	ErrInvalidRound     TournamentError = "invalid round"
	ErrNoScoringEntries TournamentError = "no scoring entries"
	ErrInvalidTeamName  TournamentError = "team name cannot be empty"
	ErrInvalidRoster    TournamentError = "invalid roster"
	ErrInvalidScore     TournamentError = "score must be a finite number"
)
