package scoring

import "math"

// Entry is a single judged line: a type tag and how many times it was observed
type Entry struct {
	// Type is the multiplier tag, e.g. "Critical"
	Type string `json:"type"`

	// Hits is the observed count; non-finite or non-positive counts score nothing
	Hits float64 `json:"hits"`
}

// Submission holds the category totals of one judged round
type Submission struct {
	Damage     float64
	Aggression float64
	Control    float64
	Total      float64
}

// Calculator computes points from a scoring table
type Calculator struct {
	table Table
}

// Config for the calculator
type Config struct {
	// Optional table; the reference table is used when nil
	Table *Table
}

// New creates a new calculator
func New(cfg *Config) *Calculator {
	table := DefaultTable()
	if cfg != nil && cfg.Table != nil {
		table = *cfg.Table
	}

	return &Calculator{
		table: table,
	}
}

// Table returns the table the calculator scores with
func (c *Calculator) Table() Table {
	return c.table
}

// NormalizeHits maps non-finite or non-positive hit counts to zero
func NormalizeHits(hits float64) float64 {
	if math.IsNaN(hits) || math.IsInf(hits, 0) || hits <= 0 {
		return 0
	}
	return hits
}

// EntryPoints scores a single entry in a category
func (c *Calculator) EntryPoints(category Category, entry Entry) float64 {
	rule := c.table.Rule(category)

	multiplier, ok := rule.Multipliers[entry.Type]
	if !ok {
		multiplier = 1
	}

	return NormalizeHits(entry.Hits) * rule.Base * multiplier
}

// CategoryTotal sums the points of every entry in a category
func (c *Calculator) CategoryTotal(category Category, entries []Entry) float64 {
	var total float64
	for _, entry := range entries {
		total += c.EntryPoints(category, entry)
	}
	return total
}

// Submission scores one judged round across all three categories
func (c *Calculator) Submission(damage, aggression, control []Entry) Submission {
	sub := Submission{
		Damage:     c.CategoryTotal(CategoryDamage, damage),
		Aggression: c.CategoryTotal(CategoryAggression, aggression),
		Control:    c.CategoryTotal(CategoryControl, control),
	}
	sub.Total = sub.Damage + sub.Aggression + sub.Control
	return sub
}

// Preview scores a form that is still being filled in
func (c *Calculator) Preview(damage, aggression, control []Entry) Submission {
	return c.Submission(damage, aggression, control)
}

// FilterScoring drops entries that would score nothing
func FilterScoring(entries []Entry) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if NormalizeHits(entry.Hits) > 0 {
			kept = append(kept, entry)
		}
	}
	return kept
}
