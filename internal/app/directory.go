package app

import (
	"math/rand"
	"time"

	"github.com/samber/lo"

	"mathbattle-service/internal/domain"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// MaxPlayersCap is the hard ceiling no settings override can exceed.
	MaxPlayersCap = 30
)

// Room is one isolated match instance identified by a short code.
type Room struct {
	Code         string
	Status       domain.RoomStatus
	Settings     domain.GameSettings
	Players      []string // player ids in join order
	HostID       string
	CreatedAt    time.Time
	LastActivity time.Time
	Match        *Match
}

// HasPlayer reports whether the identity occupies a slot.
func (r *Room) HasPlayer(playerID string) bool {
	return lo.Contains(r.Players, playerID)
}

// Presence lets an external store (Redis) mirror room liveness. Both methods
// are best-effort; failures never affect in-memory state.
type Presence interface {
	Touch(code string)
	Drop(code string)
}

// Directory creates, looks up and garbage-collects rooms by code. It is not
// safe for concurrent use; the engine serializes access.
type Directory struct {
	rooms    map[string]*Room
	rnd      *rand.Rand
	now      func() time.Time
	presence Presence
}

// newDirectory builds a directory. presence may be nil.
func newDirectory(presence Presence, rnd *rand.Rand, now func() time.Time) *Directory {
	return &Directory{
		rooms:    make(map[string]*Room),
		rnd:      rnd,
		now:      now,
		presence: presence,
	}
}

// CreateRoom allocates a room under a fresh 6-character code.
func (d *Directory) CreateRoom(settings domain.GameSettings) *Room {
	code := d.newCode()
	now := d.now()
	room := &Room{
		Code:         code,
		Status:       domain.StatusWaiting,
		Settings:     settings,
		CreatedAt:    now,
		LastActivity: now,
	}
	d.rooms[code] = room
	d.touch(room)
	return room
}

// Get returns the room for code and refreshes its last-activity timestamp.
func (d *Directory) Get(code string) (*Room, bool) {
	room, ok := d.rooms[code]
	if !ok {
		return nil, false
	}
	room.LastActivity = d.now()
	d.touch(room)
	return room, true
}

// Peek returns the room without touching activity. Used by timer callbacks so
// a stale timer cannot keep an abandoned room alive.
func (d *Directory) Peek(code string) (*Room, bool) {
	room, ok := d.rooms[code]
	return room, ok
}

// AddPlayer seats a player, enforcing capacity and slot uniqueness.
func (d *Directory) AddPlayer(code, playerID string) error {
	room, ok := d.rooms[code]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if len(room.Players) >= room.Settings.MaxPlayers {
		return domain.ErrRoomFull
	}
	if room.HasPlayer(playerID) {
		return domain.ErrPlayerAlreadyInRoom
	}
	room.Players = append(room.Players, playerID)
	room.LastActivity = d.now()
	d.touch(room)
	return nil
}

// RemovePlayer unseats a player. Idempotent: absent rooms or players are a
// no-op.
func (d *Directory) RemovePlayer(code, playerID string) {
	room, ok := d.rooms[code]
	if !ok {
		return
	}
	room.Players = lo.Without(room.Players, playerID)
	room.LastActivity = d.now()
}

// Close removes the room and its live state entirely.
func (d *Directory) Close(code string) {
	room, ok := d.rooms[code]
	if !ok {
		return
	}
	if room.Match != nil {
		room.Match.stopTimer()
	}
	delete(d.rooms, code)
	if d.presence != nil {
		d.presence.Drop(code)
	}
}

// SweepIdle removes every room idle longer than threshold, regardless of
// status, and returns the victims so the caller can finish teardown.
func (d *Directory) SweepIdle(threshold time.Duration) []*Room {
	cutoff := d.now().Add(-threshold)
	var removed []*Room
	for code, room := range d.rooms {
		if room.LastActivity.Before(cutoff) {
			removed = append(removed, room)
			d.Close(code)
		}
	}
	return removed
}

// FindByPlayer locates the room seating the given player.
func (d *Directory) FindByPlayer(playerID string) (*Room, bool) {
	for _, room := range d.rooms {
		if room.HasPlayer(playerID) {
			return room, true
		}
	}
	return nil, false
}

// Rooms snapshots the live rooms.
func (d *Directory) Rooms() []*Room {
	return lo.Values(d.rooms)
}

func (d *Directory) touch(room *Room) {
	if d.presence != nil {
		d.presence.Touch(room.Code)
	}
}

// newCode samples codes until one is free among live rooms.
func (d *Directory) newCode() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[d.rnd.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := d.rooms[code]; !taken {
			return code
		}
	}
}
