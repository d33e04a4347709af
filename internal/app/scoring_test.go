package app

import (
	"testing"

	"mathbattle-service/internal/domain"
)

func TestPointsMediumHalfTimeNoStreak(t *testing.T) {
	// base=100, speedBonus=round(100*0.5*0.5)=25, subtotal=125
	if got := Points(domain.DifficultyMedium, 30, 15, 0); got != 125 {
		t.Fatalf("expected 125 points, got %d", got)
	}
}

func TestPointsHardFullTimeWithStreak(t *testing.T) {
	// base=130, speedBonus=65, subtotal=195, streak 5 -> ×1.5 -> 293
	if got := Points(domain.DifficultyHard, 30, 30, 5); got != 293 {
		t.Fatalf("expected 293 points, got %d", got)
	}
}

func TestPointsEasyNoTimeLeft(t *testing.T) {
	// base=80, no speed bonus, no streak
	if got := Points(domain.DifficultyEasy, 30, 0, 0); got != 80 {
		t.Fatalf("expected 80 points, got %d", got)
	}
}

func TestPointsStreakCap(t *testing.T) {
	// streak 20 caps at +50%, same as streak 5 at full time
	if got, capped := Points(domain.DifficultyHard, 30, 30, 20), Points(domain.DifficultyHard, 30, 30, 5); got != capped {
		t.Fatalf("expected streak bonus capped: %d vs %d", got, capped)
	}
}

func TestPointsRatioClamped(t *testing.T) {
	// A spoofed timeRemaining above maxTime must not beat full-time points.
	if got := Points(domain.DifficultyMedium, 30, 300, 0); got != Points(domain.DifficultyMedium, 30, 30, 0) {
		t.Fatalf("expected clamped ratio, got %d", got)
	}
	if got := Points(domain.DifficultyMedium, 30, -5, 0); got != 100 {
		t.Fatalf("expected base points for negative remaining, got %d", got)
	}
}

func TestPointsStreakBelowThreshold(t *testing.T) {
	if got := Points(domain.DifficultyMedium, 30, 0, 2); got != 100 {
		t.Fatalf("expected no streak bonus under 3, got %d", got)
	}
}
