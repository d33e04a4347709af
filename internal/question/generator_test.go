package question

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"mathbattle-service/internal/domain"
)

func testGenerator(seed int64) *Generator {
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

func TestNextSamplesUnspecifiedAxes(t *testing.T) {
	g := testGenerator(1)
	bank := DefaultBank()

	for i := 0; i < 100; i++ {
		q := g.Next(bank, "", "")
		switch q.Category {
		case domain.CategoryArithmetic, domain.CategoryLogic, domain.CategoryGeometry:
		default:
			t.Fatalf("unexpected category %q", q.Category)
		}
		switch q.Difficulty {
		case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		default:
			t.Fatalf("unexpected difficulty %q", q.Difficulty)
		}
		if q.Prompt == "" || q.Answer == "" || len(q.Options) < 2 {
			t.Fatalf("incomplete question: %+v", q)
		}
	}
}

func TestNextReturnsCopiesOfPredefined(t *testing.T) {
	g := testGenerator(2)
	bank := DefaultBank()

	// Logic has no procedural generator, so this is always a pool question.
	q := g.Next(bank, domain.CategoryLogic, domain.DifficultyEasy)
	pool := bank[domain.CategoryLogic][domain.DifficultyEasy]

	for i := range pool {
		if pool[i].Prompt == q.Prompt && &pool[i].Options[0] == &q.Options[0] {
			t.Fatalf("pooled option slice leaked into issued question")
		}
	}
	q.Options[0] = "mutated"
	for _, p := range pool {
		if p.Options[0] == "mutated" {
			t.Fatalf("mutating an issued question changed the pool")
		}
	}
}

func TestOptionsAlwaysContainAnswerAndAreDistinct(t *testing.T) {
	g := testGenerator(3)

	for i := 0; i < 500; i++ {
		q := g.arithmetic(domain.DifficultyMedium)
		if len(q.Options) != 4 {
			t.Fatalf("expected 4 options, got %v", q.Options)
		}
		seen := make(map[string]struct{})
		found := false
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				t.Fatalf("duplicate option in %v (prompt %q)", q.Options, q.Prompt)
			}
			seen[opt] = struct{}{}
			if opt == q.Answer {
				found = true
			}
			if n, err := strconv.Atoi(opt); err != nil || n < 0 {
				t.Fatalf("non-numeric or negative option %q in %v", opt, q.Options)
			}
		}
		if !found {
			t.Fatalf("answer %q missing from options %v", q.Answer, q.Options)
		}
	}
}

func TestDivisionIsAlwaysExact(t *testing.T) {
	g := testGenerator(4)
	for _, diff := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		for i := 0; i < 200; i++ {
			q := g.division(diff)
			var dividend, divisor int
			if _, err := fmt.Sscanf(q.Prompt, "%d ÷ %d = ?", &dividend, &divisor); err != nil {
				t.Fatalf("unparseable prompt %q: %v", q.Prompt, err)
			}
			quotient, err := strconv.Atoi(q.Answer)
			if err != nil {
				t.Fatalf("non-numeric answer %q", q.Answer)
			}
			if divisor*quotient != dividend {
				t.Fatalf("%q: %d × %d != %d", q.Prompt, divisor, quotient, dividend)
			}
		}
	}
}

func TestSubtractionNeverNegative(t *testing.T) {
	g := testGenerator(5)
	for _, diff := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		for i := 0; i < 200; i++ {
			q := g.subtraction(diff)
			n, err := strconv.Atoi(q.Answer)
			if err != nil {
				t.Fatalf("non-numeric answer %q", q.Answer)
			}
			if n < 0 {
				t.Fatalf("negative subtraction result %d for %q", n, q.Prompt)
			}
		}
	}
}

func TestSquareRootIsPerfectSquare(t *testing.T) {
	g := testGenerator(6)
	for i := 0; i < 200; i++ {
		q := g.squareRoot(domain.DifficultyHard)
		root, err := strconv.Atoi(q.Answer)
		if err != nil {
			t.Fatalf("non-numeric answer %q", q.Answer)
		}
		var square int
		if _, err := fmt.Sscanf(q.Prompt, "√%d = ?", &square); err != nil {
			t.Fatalf("unparseable prompt %q: %v", q.Prompt, err)
		}
		if root*root != square {
			t.Fatalf("%q: %d² != %d", q.Prompt, root, square)
		}
	}
}

func TestGenerateSetDeduplicatesAndSequences(t *testing.T) {
	g := testGenerator(7)
	bank := DefaultBank()

	set := g.GenerateSet(bank, 12, domain.DifficultyMedium, domain.AllCategories())
	if len(set) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(set))
	}

	seen := make(map[string]int)
	for i, q := range set {
		if q.Sequence != i+1 {
			t.Fatalf("slot %d: expected sequence %d, got %d", i, i+1, q.Sequence)
		}
		if q.Category != domain.AllCategories()[i%3] {
			t.Fatalf("slot %d: expected round-robin category, got %s", i, q.Category)
		}
		seen[q.Prompt+"|"+q.Answer]++
	}
	for key, n := range seen {
		if n > 2 {
			t.Fatalf("prompt+answer %q repeated %d times despite retries", key, n)
		}
	}
}

func TestGenerateSetSurvivesTinyPools(t *testing.T) {
	g := testGenerator(8)
	// A bank with a single logic question forces duplicate acceptance after
	// the retry budget instead of blocking.
	bank := make(Bank)
	bank.Add(domain.Question{
		Prompt:     "Yes or no?",
		Options:    []string{"yes", "no"},
		Answer:     "yes",
		Category:   domain.CategoryLogic,
		Difficulty: domain.DifficultyMedium,
	})

	set := g.GenerateSet(bank, 5, domain.DifficultyMedium, []domain.Category{domain.CategoryLogic})
	if len(set) != 5 {
		t.Fatalf("expected 5 questions even with a tiny pool, got %d", len(set))
	}
}

func TestOrderOfOpsDistractorsDistinct(t *testing.T) {
	g := testGenerator(9)
	for i := 0; i < 300; i++ {
		q := g.orderOfOps(domain.DifficultyMedium)
		seen := make(map[string]struct{})
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				t.Fatalf("duplicate option in %v for %q", q.Options, q.Prompt)
			}
			seen[opt] = struct{}{}
		}
		if _, ok := seen[q.Answer]; !ok {
			t.Fatalf("answer missing from options for %q", q.Prompt)
		}
	}
}
