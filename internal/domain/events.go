package domain

// Event is the envelope for every message the engine pushes to the transport
// layer for broadcast or unicast delivery.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event types.
const (
	EventRoomCreated        = "room-created"
	EventRoomJoined         = "room-joined"
	EventPlayerJoined       = "player-joined"
	EventGameStarted        = "game-started"
	EventNewQuestion        = "new-question"
	EventAnswerResult       = "answer-result"
	EventRoundResults       = "round-results"
	EventGameFinished       = "game-finished"
	EventPlayerDisconnected = "player-disconnected"
	EventHostChanged        = "host-changed"
	EventError              = "error"
)

// PlayerInfo is the client-facing view of a player.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Score  int    `json:"score"`
}

// RoomCreatedPayload answers a create-room request.
type RoomCreatedPayload struct {
	RoomCode string       `json:"roomCode"`
	Player   PlayerInfo   `json:"player"`
	Settings GameSettings `json:"settings"`
}

// RoomJoinedPayload answers a join-room request (unicast to the joiner).
type RoomJoinedPayload struct {
	RoomCode string       `json:"roomCode"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"`
	Settings GameSettings `json:"settings"`
}

// PlayerJoinedPayload notifies a room about a new participant.
type PlayerJoinedPayload struct {
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
}

// GameStartedPayload announces the countdown to the first question.
type GameStartedPayload struct {
	TotalQuestions int `json:"totalQuestions"`
	CountdownMs    int `json:"countdownMs"`
}

// NewQuestionPayload delivers the current question without its answer.
type NewQuestionPayload struct {
	Question       Question `json:"question"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
	TimeLimit      int      `json:"timeLimit"`
}

// AnswerResultPayload is unicast to the player who just answered.
type AnswerResultPayload struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	PointsEarned  int    `json:"pointsEarned"`
	TotalScore    int    `json:"totalScore"`
	Streak        int    `json:"streak"`
}

// PlayerDisconnectedPayload notifies a room a player left.
type PlayerDisconnectedPayload struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Players  []PlayerInfo `json:"players"`
}

// HostChangedPayload announces host failover.
type HostChangedPayload struct {
	NewHost PlayerInfo `json:"newHost"`
}

// ErrorPayload is unicast to the connection whose request failed.
type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
