package question

import (
	"math/rand"

	"mathbattle-service/internal/domain"
)

// Bank holds the predefined question pools keyed by category and difficulty.
// Pools are read-only once loaded; the generator hands out copies so a round
// can stamp sequence numbers and time limits without mutating the pool.
type Bank map[domain.Category]map[domain.Difficulty][]domain.Question

// Add appends q to its pool, creating nested maps as needed.
func (b Bank) Add(q domain.Question) {
	if b[q.Category] == nil {
		b[q.Category] = make(map[domain.Difficulty][]domain.Question)
	}
	b[q.Category][q.Difficulty] = append(b[q.Category][q.Difficulty], q)
}

// Size returns the total number of predefined questions.
func (b Bank) Size() int {
	total := 0
	for _, byDiff := range b {
		for _, pool := range byDiff {
			total += len(pool)
		}
	}
	return total
}

// pick returns a copy of a random question from the (category, difficulty)
// pool. Falls back to any difficulty within the category before giving up.
func (b Bank) pick(rnd *rand.Rand, category domain.Category, difficulty domain.Difficulty) (domain.Question, bool) {
	byDiff, ok := b[category]
	if !ok || len(byDiff) == 0 {
		return domain.Question{}, false
	}
	if pool := byDiff[difficulty]; len(pool) > 0 {
		return copyQuestion(pool[rnd.Intn(len(pool))]), true
	}
	// Difficulty pool empty: collect the rest of the category.
	var merged []domain.Question
	for _, pool := range byDiff {
		merged = append(merged, pool...)
	}
	if len(merged) == 0 {
		return domain.Question{}, false
	}
	return copyQuestion(merged[rnd.Intn(len(merged))]), true
}

// copyQuestion deep-copies a pooled question so callers never share the
// original's option slice across sessions.
func copyQuestion(q domain.Question) domain.Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}
