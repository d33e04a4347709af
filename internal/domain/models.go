package domain

import "time"

// Category classifies a question's subject area.
type Category string

const (
	CategoryArithmetic Category = "arithmetic"
	CategoryLogic      Category = "logic"
	CategoryGeometry   Category = "geometry"
)

// AllCategories is the default category set for a new room.
func AllCategories() []Category {
	return []Category{CategoryArithmetic, CategoryLogic, CategoryGeometry}
}

// Difficulty scales operand ranges and point multipliers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RoomStatus is the lifecycle phase of a room.
type RoomStatus string

const (
	StatusWaiting        RoomStatus = "waiting"
	StatusStarting       RoomStatus = "starting"
	StatusPlaying        RoomStatus = "playing"
	StatusShowingResults RoomStatus = "showing_results"
	StatusFinished       RoomStatus = "finished"
)

// GameSettings holds per-room configuration merged from defaults and
// host-provided overrides at room creation.
type GameSettings struct {
	MaxPlayers     int        `json:"maxPlayers" yaml:"max_players"`
	QuestionTime   int        `json:"questionTime" yaml:"question_time"` // seconds per question
	TotalQuestions int        `json:"totalQuestions" yaml:"total_questions"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
	Categories     []Category `json:"categories" yaml:"categories"`
}

// Question is immutable once issued to a round. Options always contain the
// correct answer in a shuffled position.
type Question struct {
	Prompt      string     `json:"prompt"`
	Options     []string   `json:"options"`
	Answer      string     `json:"-"` // never serialized to clients
	Explanation string     `json:"explanation,omitempty"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Sequence    int        `json:"sequence,omitempty"`  // 1-based position within a generated set
	TimeLimit   int        `json:"timeLimit,omitempty"` // seconds
}

// RoundAnswer records one player's submission for the active round.
// Exactly one per player per round; later submissions are rejected.
type RoundAnswer struct {
	PlayerID      string        `json:"playerId"`
	PlayerName    string        `json:"playerName"`
	Answer        string        `json:"answer"`
	Correct       bool          `json:"correct"`
	ResponseTime  time.Duration `json:"responseTimeMs"` // measured server-side
	TimeRemaining int           `json:"timeRemaining"`  // client-reported, bonus only
	Points        int           `json:"points"`
	SubmittedAt   time.Time     `json:"submittedAt"`
}

// RoundResult is appended to the session's immutable history after every round.
type RoundResult struct {
	Question       Question      `json:"question"`
	CorrectAnswer  string        `json:"correctAnswer"`
	Answers        []RoundAnswer `json:"answers"` // ranked: correct desc, points desc, latency asc
	Accuracy       float64       `json:"accuracy"`
	AvgResponseMs  int64         `json:"avgResponseMs"`
	FastestMs      int64         `json:"fastestMs"`
	Standings      []Standing    `json:"standings"` // overall snapshot at this point
	QuestionNumber int           `json:"questionNumber"`
}

// Standing is one row of a ranking (per-round snapshot or final).
type Standing struct {
	Rank          int     `json:"rank"`
	PlayerID      string  `json:"playerId"`
	Name          string  `json:"name"`
	Score         int     `json:"score"`
	Correct       int     `json:"correct"`
	Total         int     `json:"total"`
	Accuracy      float64 `json:"accuracy"`
	AvgResponseMs int64   `json:"avgResponseMs"`
	BestStreak    int     `json:"bestStreak"`
	Performance   string  `json:"performance"`
}

// FinalResults summarizes a finished game.
type FinalResults struct {
	Winner     *Standing  `json:"winner,omitempty"`
	Standings  []Standing `json:"standings"`
	Rounds     int        `json:"rounds"`
	Duration   int64      `json:"durationMs"`
	FinishedAt time.Time  `json:"finishedAt"`
}
