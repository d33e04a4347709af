package question

import (
	"math/rand"

	"mathbattle-service/internal/domain"
)

// predefinedShare is the probability of serving a predefined question instead
// of dispatching to a procedural generator.
const predefinedShare = 0.7

// dedupRetries bounds how often GenerateSet re-rolls a slot before accepting
// a duplicate prompt+answer pair.
const dedupRetries = 10

// Generator produces single questions and de-duplicated ordered sets.
type Generator struct {
	rnd *rand.Rand
}

// NewWithRand builds a Generator on the given source, letting callers inject
// deterministic randomness.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Next returns one question. Empty category or difficulty means "sample
// uniformly". Arithmetic may be procedurally generated; logic and geometry
// have no procedural generator and always come from the bank.
func (g *Generator) Next(bank Bank, category domain.Category, difficulty domain.Difficulty) domain.Question {
	if category == "" {
		all := domain.AllCategories()
		category = all[g.rnd.Intn(len(all))]
	}
	if difficulty == "" {
		levels := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
		difficulty = levels[g.rnd.Intn(len(levels))]
	}

	if category != domain.CategoryArithmetic {
		if q, ok := bank.pick(g.rnd, category, difficulty); ok {
			return q
		}
		// No predefined material for this category; arithmetic is the only
		// category that can always be synthesized.
		return g.arithmetic(difficulty)
	}

	if g.rnd.Float64() < predefinedShare {
		if q, ok := bank.pick(g.rnd, category, difficulty); ok {
			return q
		}
	}
	return g.arithmetic(difficulty)
}

// GenerateSet builds an ordered question sequence of the requested size,
// cycling through categories round-robin and sampling difficulty from a
// distribution keyed by the room's base difficulty. Prompt+answer pairs are
// de-duplicated with bounded retries; a stubborn collision is accepted rather
// than blocking generation.
func (g *Generator) GenerateSet(bank Bank, count int, base domain.Difficulty, categories []domain.Category) []domain.Question {
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}

	seen := make(map[string]struct{}, count)
	set := make([]domain.Question, 0, count)
	for i := 0; i < count; i++ {
		category := categories[i%len(categories)]
		var q domain.Question
		for attempt := 0; attempt <= dedupRetries; attempt++ {
			q = g.Next(bank, category, g.sampleDifficulty(base))
			if _, dup := seen[dedupKey(q)]; !dup {
				break
			}
		}
		seen[dedupKey(q)] = struct{}{}
		q.Sequence = i + 1
		set = append(set, q)
	}
	return set
}

func dedupKey(q domain.Question) string {
	return q.Prompt + "|" + q.Answer
}

// sampleDifficulty draws from the distribution for the room's base
// difficulty, e.g. base medium -> {easy 0.2, medium 0.6, hard 0.2}.
func (g *Generator) sampleDifficulty(base domain.Difficulty) domain.Difficulty {
	var easy, medium float64
	switch base {
	case domain.DifficultyEasy:
		easy, medium = 0.7, 0.25
	case domain.DifficultyHard:
		easy, medium = 0.05, 0.25
	default:
		easy, medium = 0.2, 0.6
	}
	roll := g.rnd.Float64()
	switch {
	case roll < easy:
		return domain.DifficultyEasy
	case roll < easy+medium:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}
