package question

import "mathbattle-service/internal/domain"

// DefaultBank returns the built-in predefined pools. The postgres loader
// replaces this set in production; tests and the zero-config start command
// run against it directly.
func DefaultBank() Bank {
	bank := make(Bank)
	for _, q := range predefined {
		bank.Add(q)
	}
	return bank
}

var predefined = []domain.Question{
	// arithmetic / easy
	{
		Prompt:      "What is 7 + 8?",
		Options:     []string{"13", "14", "15", "16"},
		Answer:      "15",
		Explanation: "7 + 8 = 15",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "What is 9 × 6?",
		Options:     []string{"52", "54", "56", "58"},
		Answer:      "54",
		Explanation: "9 × 6 = 54",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "What is half of 50?",
		Options:     []string{"20", "25", "30", "15"},
		Answer:      "25",
		Explanation: "50 ÷ 2 = 25",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyEasy,
	},
	// arithmetic / medium
	{
		Prompt:      "What is 15% of 200?",
		Options:     []string{"25", "30", "35", "40"},
		Answer:      "30",
		Explanation: "200 × 0.15 = 30",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "What is 17 × 13?",
		Options:     []string{"221", "217", "231", "211"},
		Answer:      "221",
		Explanation: "17 × 13 = 17 × 10 + 17 × 3 = 170 + 51 = 221",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "What is the remainder of 100 ÷ 7?",
		Options:     []string{"1", "2", "3", "4"},
		Answer:      "2",
		Explanation: "7 × 14 = 98, leaving remainder 2",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyMedium,
	},
	// arithmetic / hard
	{
		Prompt:      "What is 2^10?",
		Options:     []string{"512", "1024", "2048", "256"},
		Answer:      "1024",
		Explanation: "2^10 = 1024",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "What is 111 × 11?",
		Options:     []string{"1221", "1211", "1231", "1121"},
		Answer:      "1221",
		Explanation: "111 × 11 = 1110 + 111 = 1221",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "What is the sum of the first 10 positive integers?",
		Options:     []string{"45", "50", "55", "60"},
		Answer:      "55",
		Explanation: "10 × 11 / 2 = 55",
		Category:    domain.CategoryArithmetic,
		Difficulty:  domain.DifficultyHard,
	},
	// logic / easy
	{
		Prompt:      "What comes next: 2, 4, 6, 8, ...?",
		Options:     []string{"9", "10", "11", "12"},
		Answer:      "10",
		Explanation: "The sequence increases by 2",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "If all Bloops are Razzies and all Razzies are Lazzies, are all Bloops Lazzies? (yes/no)",
		Options:     []string{"yes", "no"},
		Answer:      "yes",
		Explanation: "Transitivity: Bloops ⊆ Razzies ⊆ Lazzies",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "What comes next: 1, 1, 2, 3, 5, 8, ...?",
		Options:     []string{"11", "12", "13", "14"},
		Answer:      "13",
		Explanation: "Each Fibonacci term is the sum of the previous two",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyEasy,
	},
	// logic / medium
	{
		Prompt:      "A farmer has 17 sheep. All but 9 run away. How many are left?",
		Options:     []string{"8", "9", "17", "0"},
		Answer:      "9",
		Explanation: "\"All but 9\" means 9 remain",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "What comes next: 3, 6, 12, 24, ...?",
		Options:     []string{"36", "42", "48", "50"},
		Answer:      "48",
		Explanation: "Each term doubles the previous one",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "Two coins total 30 cents and one of them is not a nickel. What is the other coin?",
		Options:     []string{"a quarter", "a dime", "a penny", "a nickel"},
		Answer:      "a nickel",
		Explanation: "One is a quarter (not a nickel); the other is a nickel",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyMedium,
	},
	// logic / hard
	{
		Prompt:      "What comes next: 1, 4, 9, 16, 25, ...?",
		Options:     []string{"30", "35", "36", "49"},
		Answer:      "36",
		Explanation: "The sequence is the perfect squares; 6² = 36",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "A clock shows 3:15. What is the angle between the hands in degrees?",
		Options:     []string{"0", "7.5", "15", "30"},
		Answer:      "7.5",
		Explanation: "The hour hand sits 7.5° past the 3 at quarter past",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "How many times does the digit 9 appear when writing the numbers 1 to 100?",
		Options:     []string{"19", "20", "18", "11"},
		Answer:      "20",
		Explanation: "Ten in the units place, ten in the tens place",
		Category:    domain.CategoryLogic,
		Difficulty:  domain.DifficultyHard,
	},
	// geometry / easy
	{
		Prompt:      "How many sides does a hexagon have?",
		Options:     []string{"5", "6", "7", "8"},
		Answer:      "6",
		Explanation: "Hexa means six",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "What is the area of a 4 × 5 rectangle?",
		Options:     []string{"18", "20", "22", "24"},
		Answer:      "20",
		Explanation: "Area = width × height = 4 × 5",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyEasy,
	},
	{
		Prompt:      "How many degrees are in a right angle?",
		Options:     []string{"45", "60", "90", "180"},
		Answer:      "90",
		Explanation: "A right angle is a quarter turn",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyEasy,
	},
	// geometry / medium
	{
		Prompt:      "What is the sum of interior angles of a triangle in degrees?",
		Options:     []string{"90", "180", "270", "360"},
		Answer:      "180",
		Explanation: "Every triangle's interior angles sum to 180°",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "A right triangle has legs 3 and 4. How long is the hypotenuse?",
		Options:     []string{"5", "6", "7", "8"},
		Answer:      "5",
		Explanation: "3² + 4² = 25 = 5²",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyMedium,
	},
	{
		Prompt:      "What is the perimeter of a square with side 7?",
		Options:     []string{"21", "28", "35", "49"},
		Answer:      "28",
		Explanation: "4 × 7 = 28",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyMedium,
	},
	// geometry / hard
	{
		Prompt:      "What is the sum of interior angles of an octagon in degrees?",
		Options:     []string{"900", "1080", "1260", "1440"},
		Answer:      "1080",
		Explanation: "(8 - 2) × 180 = 1080",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "A circle has radius 10. What is its area to the nearest whole number (π ≈ 3.14159)?",
		Options:     []string{"314", "300", "320", "310"},
		Answer:      "314",
		Explanation: "π × 10² ≈ 314",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyHard,
	},
	{
		Prompt:      "How many edges does a cube have?",
		Options:     []string{"8", "10", "12", "14"},
		Answer:      "12",
		Explanation: "A cube has 12 edges, 8 vertices, 6 faces",
		Category:    domain.CategoryGeometry,
		Difficulty:  domain.DifficultyHard,
	},
}
