package app

import (
	"math"

	"mathbattle-service/internal/domain"
)

// scoring constants; the streak multiplier kicks in from the third
// consecutive correct answer and is capped at +50%.
const (
	basePoints        = 100
	speedBonusShare   = 0.5
	streakBonusFloor  = 3
	streakBonusCap    = 0.5
	streakBonusFactor = 10.0
)

func difficultyMultiplier(d domain.Difficulty) float64 {
	switch d {
	case domain.DifficultyEasy:
		return 0.8
	case domain.DifficultyHard:
		return 1.3
	default:
		return 1.0
	}
}

// Points is the single canonical scoring function, applied to correct answers
// only. streak is the player's streak counting this answer.
//
//	base       = 100 × difficulty multiplier (easy 0.8, medium 1.0, hard 1.3)
//	speedBonus = round(base × 0.5 × timeRemaining/maxTime), ratio clamped to [0,1]
//	streak ≥ 3 multiplies the subtotal by 1 + min(streak/10, 0.5)
func Points(difficulty domain.Difficulty, maxTimeSec, timeRemainingSec, streak int) int {
	base := basePoints * difficultyMultiplier(difficulty)

	ratio := 0.0
	if maxTimeSec > 0 {
		ratio = float64(timeRemainingSec) / float64(maxTimeSec)
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	speedBonus := math.Round(base * speedBonusShare * ratio)

	subtotal := base + speedBonus
	if streak >= streakBonusFloor {
		bonus := math.Min(float64(streak)/streakBonusFactor, streakBonusCap)
		subtotal = math.Round(subtotal * (1 + bonus))
	}
	return int(math.Round(subtotal))
}
