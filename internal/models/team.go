package models

// Team represents a competing robot team and its running score breakdown
type Team struct {
	// ID is the stable numeric identifier for the team
	ID int `json:"id"`

	// Name is the display name of the team
	Name string `json:"name"`

	// DamageTotal is the accumulated damage category score
	DamageTotal float64 `json:"damageTotal"`

	// AggrTotal is the accumulated aggression category score
	AggrTotal float64 `json:"aggrTotal"`

	// CtrlTotal is the accumulated control category score
	CtrlTotal float64 `json:"ctrlTotal"`

	// Total is always DamageTotal + AggrTotal + CtrlTotal
	Total float64 `json:"total"`

	// PrevTotal is the total before the last applied submission
	PrevTotal float64 `json:"prevTotal"`

	// Rounds is the number of scoring submissions applied to the team
	Rounds int `json:"rounds"`

	// HasBye indicates the team holds the bye for the current round cycle
	HasBye bool `json:"hasBye"`
}

// NewTeam returns a fully hydrated team with zeroed scores
func NewTeam(id int, name string) *Team {
	return &Team{
		ID:   id,
		Name: name,
	}
}

// ResetScores zeroes every score field that belongs to the current round cycle
func (t *Team) ResetScores() {
	t.DamageTotal = 0
	t.AggrTotal = 0
	t.CtrlTotal = 0
	t.Total = 0
	t.Rounds = 0
}

// RecomputeTotal restores the total invariant from the category totals
func (t *Team) RecomputeTotal() {
	t.Total = t.DamageTotal + t.AggrTotal + t.CtrlTotal
}
