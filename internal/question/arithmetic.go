package question

import (
	"fmt"
	"strconv"

	"mathbattle-service/internal/domain"
)

// arithmeticOp enumerates the procedural arithmetic generators.
type arithmeticOp int

const (
	opAddition arithmeticOp = iota
	opSubtraction
	opMultiplication
	opDivision
	opExponent
	opSquareRoot
	opOrderOfOps
	opCount
)

// arithmetic synthesizes a multiple-choice arithmetic question for the given
// difficulty, choosing one of the seven operation generators at random.
func (g *Generator) arithmetic(difficulty domain.Difficulty) domain.Question {
	switch arithmeticOp(g.rnd.Intn(int(opCount))) {
	case opAddition:
		return g.addition(difficulty)
	case opSubtraction:
		return g.subtraction(difficulty)
	case opMultiplication:
		return g.multiplication(difficulty)
	case opDivision:
		return g.division(difficulty)
	case opExponent:
		return g.exponent(difficulty)
	case opSquareRoot:
		return g.squareRoot(difficulty)
	default:
		return g.orderOfOps(difficulty)
	}
}

// between returns a uniform integer in [min, max].
func (g *Generator) between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rnd.Intn(max-min+1)
}

func (g *Generator) addition(difficulty domain.Difficulty) domain.Question {
	var a, b int
	switch difficulty {
	case domain.DifficultyEasy:
		a, b = g.between(1, 20), g.between(1, 20)
	case domain.DifficultyHard:
		a, b = g.between(100, 999), g.between(100, 999)
	default:
		a, b = g.between(10, 99), g.between(10, 99)
	}
	correct := a + b
	return g.build(
		fmt.Sprintf("%d + %d = ?", a, b),
		correct,
		fmt.Sprintf("%d + %d = %d", a, b, correct),
		difficulty,
	)
}

// subtraction swaps operands when needed so the result is never negative.
func (g *Generator) subtraction(difficulty domain.Difficulty) domain.Question {
	var a, b int
	switch difficulty {
	case domain.DifficultyEasy:
		a, b = g.between(1, 20), g.between(1, 20)
	case domain.DifficultyHard:
		a, b = g.between(100, 999), g.between(100, 999)
	default:
		a, b = g.between(10, 99), g.between(10, 99)
	}
	if b > a {
		a, b = b, a
	}
	correct := a - b
	return g.build(
		fmt.Sprintf("%d - %d = ?", a, b),
		correct,
		fmt.Sprintf("%d - %d = %d", a, b, correct),
		difficulty,
	)
}

func (g *Generator) multiplication(difficulty domain.Difficulty) domain.Question {
	var a, b int
	switch difficulty {
	case domain.DifficultyEasy:
		a, b = g.between(2, 9), g.between(2, 9)
	case domain.DifficultyHard:
		a, b = g.between(11, 25), g.between(11, 25)
	default:
		a, b = g.between(3, 12), g.between(3, 12)
	}
	correct := a * b
	return g.build(
		fmt.Sprintf("%d × %d = ?", a, b),
		correct,
		fmt.Sprintf("%d × %d = %d", a, b, correct),
		difficulty,
	)
}

// division builds the dividend as divisor × quotient so the result is always
// an exact integer.
func (g *Generator) division(difficulty domain.Difficulty) domain.Question {
	var divisor, quotient int
	switch difficulty {
	case domain.DifficultyEasy:
		divisor, quotient = g.between(2, 9), g.between(2, 9)
	case domain.DifficultyHard:
		divisor, quotient = g.between(3, 19), g.between(5, 30)
	default:
		divisor, quotient = g.between(2, 12), g.between(3, 15)
	}
	dividend := divisor * quotient
	return g.build(
		fmt.Sprintf("%d ÷ %d = ?", dividend, divisor),
		quotient,
		fmt.Sprintf("%d ÷ %d = %d because %d × %d = %d", dividend, divisor, quotient, divisor, quotient, dividend),
		difficulty,
	)
}

func (g *Generator) exponent(difficulty domain.Difficulty) domain.Question {
	var base, exp int
	switch difficulty {
	case domain.DifficultyEasy:
		base, exp = g.between(2, 5), 2
	case domain.DifficultyHard:
		base, exp = g.between(2, 6), g.between(2, 3)
	default:
		base, exp = g.between(2, 9), 2
	}
	correct := 1
	for i := 0; i < exp; i++ {
		correct *= base
	}
	return g.build(
		fmt.Sprintf("%d^%d = ?", base, exp),
		correct,
		fmt.Sprintf("%d multiplied by itself %d times equals %d", base, exp, correct),
		difficulty,
	)
}

// squareRoot presents a perfect square so the root is always an integer.
func (g *Generator) squareRoot(difficulty domain.Difficulty) domain.Question {
	var root int
	switch difficulty {
	case domain.DifficultyEasy:
		root = g.between(2, 9)
	case domain.DifficultyHard:
		root = g.between(10, 30)
	default:
		root = g.between(5, 15)
	}
	square := root * root
	return g.build(
		fmt.Sprintf("√%d = ?", square),
		root,
		fmt.Sprintf("%d × %d = %d, so √%d = %d", root, root, square, square, root),
		difficulty,
	)
}

// orderOfOps builds one of several fixed expression shapes and derives
// distractors from the precedence mistakes specific to that shape.
func (g *Generator) orderOfOps(difficulty domain.Difficulty) domain.Question {
	var lo, hi int
	switch difficulty {
	case domain.DifficultyEasy:
		lo, hi = 2, 9
	case domain.DifficultyHard:
		lo, hi = 3, 15
	default:
		lo, hi = 2, 12
	}
	a, b, c := g.between(lo, hi), g.between(lo, hi), g.between(lo, hi)

	var prompt, explanation string
	var correct, mistake int
	switch g.rnd.Intn(4) {
	case 0:
		prompt = fmt.Sprintf("%d + %d × %d = ?", a, b, c)
		correct = a + b*c
		mistake = (a + b) * c // left-to-right, precedence ignored
		explanation = fmt.Sprintf("Multiply first: %d × %d = %d, then add %d", b, c, b*c, a)
	case 1:
		prompt = fmt.Sprintf("(%d + %d) × %d = ?", a, b, c)
		correct = (a + b) * c
		mistake = a + b*c // parentheses ignored
		explanation = fmt.Sprintf("Parentheses first: %d + %d = %d, then × %d", a, b, a+b, c)
	case 2:
		prompt = fmt.Sprintf("%d × (%d + %d) = ?", a, b, c)
		correct = a * (b + c)
		mistake = a*b + c
		explanation = fmt.Sprintf("Parentheses first: %d + %d = %d, then %d × %d", b, c, b+c, a, b+c)
	default:
		d := g.between(lo, hi)
		prompt = fmt.Sprintf("%d + %d × %d - %d = ?", a, b, c, d)
		correct = a + b*c - d
		mistake = (a+b)*c - d
		if correct < 0 {
			// Keep every option non-negative by folding the subtraction away.
			prompt = fmt.Sprintf("%d + %d × %d = ?", a, b, c)
			correct = a + b*c
			mistake = (a + b) * c
		}
		explanation = "Multiplication binds tighter than addition and subtraction"
	}

	options := g.shapeOptions(correct, mistake)
	return domain.Question{
		Prompt:      prompt,
		Options:     options,
		Answer:      strconv.Itoa(correct),
		Explanation: explanation,
		Category:    domain.CategoryArithmetic,
		Difficulty:  difficulty,
	}
}

// build assembles a standard 4-option question around an integer answer.
func (g *Generator) build(prompt string, correct int, explanation string, difficulty domain.Difficulty) domain.Question {
	options := g.options(correct, nil)
	return domain.Question{
		Prompt:      prompt,
		Options:     options,
		Answer:      strconv.Itoa(correct),
		Explanation: explanation,
		Category:    domain.CategoryArithmetic,
		Difficulty:  difficulty,
	}
}

// shapeOptions seeds the distractor set with a shape-specific precedence
// mistake, then pads with near misses.
func (g *Generator) shapeOptions(correct, mistake int) []string {
	var seed []int
	if mistake != correct && mistake >= 0 {
		seed = append(seed, mistake)
	}
	return g.options(correct, seed)
}

// options produces 3 distinct non-negative distractors clustered near the
// correct value (offsets within ±30% of its magnitude) and shuffles them
// together with the correct answer.
func (g *Generator) options(correct int, seed []int) []string {
	taken := map[int]struct{}{correct: {}}
	distractors := make([]int, 0, 3)
	for _, v := range seed {
		if _, dup := taken[v]; dup || v < 0 {
			continue
		}
		taken[v] = struct{}{}
		distractors = append(distractors, v)
	}

	spread := correct * 3 / 10
	if spread < 3 {
		spread = 3
	}
	for tries := 0; len(distractors) < 3 && tries < 100; tries++ {
		offset := g.between(1, spread)
		if g.rnd.Intn(2) == 0 {
			offset = -offset
		}
		candidate := correct + offset
		if candidate < 0 {
			candidate = correct + g.between(1, spread)
		}
		if _, dup := taken[candidate]; dup || candidate < 0 {
			continue
		}
		taken[candidate] = struct{}{}
		distractors = append(distractors, candidate)
	}
	// Deterministic fallback for tiny values where random offsets keep
	// colliding.
	for k := 1; len(distractors) < 3; k++ {
		candidate := correct + spread + k
		if _, dup := taken[candidate]; dup {
			continue
		}
		taken[candidate] = struct{}{}
		distractors = append(distractors, candidate)
	}

	values := append([]int{correct}, distractors...)
	g.rnd.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}
