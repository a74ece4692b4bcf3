package economy

import "math"

const baseLevelRequirement = 1000.0

// stepMultipliers is the fixed ascending reward multiplier table applied on
// level-up. Levels past the end of the table keep the last entry.
var stepMultipliers = []float64{1.0, 1.1, 1.25, 1.5, 2.0, 2.5, 3.0}

type Progression struct {
	Level      int     `json:"level"`
	Experience float64 `json:"experience"`
}

// ExperienceToNextLevel returns the experience threshold for leaving the
// given level: baseRequirement * 1.5^(level-1).
func ExperienceToNextLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return baseLevelRequirement * math.Pow(1.5, float64(level-1))
}

// StepMultiplier returns the reward multiplier for a level, clamped to the
// last table entry once the table is exhausted.
func StepMultiplier(level int) float64 {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(stepMultipliers) {
		idx = len(stepMultipliers) - 1
	}
	return stepMultipliers[idx]
}

// AddExperience accumulates experience and applies every level-up it pays
// for. Excess experience carries over to the next level, never discarded.
func AddExperience(p Progression, amount float64) Progression {
	if p.Level < 1 {
		p.Level = 1
	}
	if amount < 0 {
		amount = 0
	}
	p.Experience += amount

	for {
		threshold := ExperienceToNextLevel(p.Level)
		if p.Experience < threshold {
			break
		}
		p.Experience -= threshold
		p.Level++
	}
	return p
}
