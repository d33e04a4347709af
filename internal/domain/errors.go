package domain

import "errors"

var (
	// ErrRoomNotFound is returned when no live room matches the given code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a join would exceed the room's max players.
	ErrRoomFull = errors.New("room is full")
	// ErrPlayerNotFound is returned when a player id is not registered.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrPlayerAlreadyInRoom is returned when an identity already occupies a slot.
	ErrPlayerAlreadyInRoom = errors.New("player already in room")
	// ErrDuplicateConnection is returned when a connection is already registered.
	ErrDuplicateConnection = errors.New("connection already registered")
	// ErrInvalidName is returned for display names outside the allowed shape.
	ErrInvalidName = errors.New("invalid player name")
	// ErrNotHost is returned when a non-host attempts a host-only action.
	ErrNotHost = errors.New("only the host can do that")
	// ErrNotEnoughPlayers is returned when a game starts with fewer than 2 players.
	ErrNotEnoughPlayers = errors.New("at least 2 players required")
	// ErrGameAlreadyStarted is returned when starting a room that left waiting.
	ErrGameAlreadyStarted = errors.New("game already started")
	// ErrNoActiveQuestion is returned when answering outside an active round.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrAlreadyAnswered is returned on a second submission for the same round.
	ErrAlreadyAnswered = errors.New("already answered this round")
	// ErrBankEmpty indicates the predefined question bank has no usable pool.
	ErrBankEmpty = errors.New("question bank is empty")
)

// ErrorKind buckets sentinel errors for transport-level error payloads.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindCapacity      ErrorKind = "capacity"
	KindState         ErrorKind = "state"
	KindAuthorization ErrorKind = "authorization"
	KindInternal      ErrorKind = "internal"
)

// Kind classifies err into one of the error kinds above.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidName):
		return KindValidation
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrBankEmpty):
		return KindNotFound
	case errors.Is(err, ErrRoomFull):
		return KindCapacity
	case errors.Is(err, ErrNotHost):
		return KindAuthorization
	case errors.Is(err, ErrPlayerAlreadyInRoom), errors.Is(err, ErrDuplicateConnection),
		errors.Is(err, ErrNotEnoughPlayers), errors.Is(err, ErrGameAlreadyStarted),
		errors.Is(err, ErrNoActiveQuestion), errors.Is(err, ErrAlreadyAnswered):
		return KindState
	default:
		return KindInternal
	}
}
