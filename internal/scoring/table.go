package scoring

import (
	"fmt"
	"math"
)

// Category is one of the three judged scoring categories
type Category string

const (
	CategoryDamage     Category = "damage"
	CategoryAggression Category = "aggression"
	CategoryControl    Category = "control"
)

// Categories lists the judged categories in display order
var Categories = []Category{CategoryDamage, CategoryAggression, CategoryControl}

// CategoryRule holds the base points and type multipliers for one category
type CategoryRule struct {
	// Base is the points awarded per hit before the multiplier
	Base float64 `yaml:"base"`

	// Multipliers maps a type tag to its multiplier; unknown tags count as 1
	Multipliers map[string]float64 `yaml:"multipliers"`
}

// Table is the full base and multiplier configuration
type Table struct {
	Damage     CategoryRule `yaml:"damage"`
	Aggression CategoryRule `yaml:"aggression"`
	Control    CategoryRule `yaml:"control"`
}

// DefaultTable returns the reference scoring table
func DefaultTable() Table {
	return Table{
		Damage: CategoryRule{
			Base: 10,
			Multipliers: map[string]float64{
				"Cosmetic":   1,
				"Functional": 2,
				"Critical":   3,
			},
		},
		Aggression: CategoryRule{
			Base: 5,
			Multipliers: map[string]float64{
				"Reactive":   1,
				"Active":     1.5,
				"Relentless": 2,
			},
		},
		Control: CategoryRule{
			Base: 5,
			Multipliers: map[string]float64{
				"Evasive":  1,
				"Tactical": 1.5,
				"Dominant": 2,
			},
		},
	}
}

// Rule returns the rule for a category; unknown categories get a zero rule
func (t Table) Rule(category Category) CategoryRule {
	switch category {
	case CategoryDamage:
		return t.Damage
	case CategoryAggression:
		return t.Aggression
	case CategoryControl:
		return t.Control
	}
	return CategoryRule{}
}

// Validate rejects negative or non-finite bases and multipliers
func (t Table) Validate() error {
	for _, category := range Categories {
		rule := t.Rule(category)
		if !usable(rule.Base) {
			return fmt.Errorf("%s base must be a finite, non-negative number, got %v", category, rule.Base)
		}
		for tag, multiplier := range rule.Multipliers {
			if !usable(multiplier) {
				return fmt.Errorf("%s multiplier %q must be a finite, non-negative number, got %v", category, tag, multiplier)
			}
		}
	}
	return nil
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
