// Package catalog holds the fixed universe of practiceable multiplication facts.
package catalog

import (
	"math"

	"github.com/vytor/factflash/internal/models"
)

const (
	MinOperand = 1
	MaxOperand = 12

	// Size is the number of facts in a fully seeded catalog.
	Size = (MaxOperand - MinOperand + 1) * (MaxOperand - MinOperand + 1)
)

// Facts returns the seed rows in canonical (a, b) order. IDs are left zero;
// storage assigns them.
func Facts() []models.Fact {
	facts := make([]models.Fact, 0, Size)
	for a := MinOperand; a <= MaxOperand; a++ {
		for b := MinOperand; b <= MaxOperand; b++ {
			facts = append(facts, models.Fact{A: a, B: b, Op: models.OpMultiply})
		}
	}
	return facts
}

// SanitizeOperand floors v and clamps it into [0, MaxOperand].
// NaN maps to 0.
func SanitizeOperand(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Floor(v)
	if v < 0 {
		return 0
	}
	if v > MaxOperand {
		return MaxOperand
	}
	return int(v)
}
