package app

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"mathbattle-service/internal/domain"
)

func testDirectory(now func() time.Time) *Directory {
	return newDirectory(nil, rand.New(rand.NewSource(7)), now)
}

func TestCreateRoomCodeShape(t *testing.T) {
	dir := testDirectory(time.Now)
	codeShape := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		room := dir.CreateRoom(DefaultSettings())
		if !codeShape.MatchString(room.Code) {
			t.Fatalf("bad room code %q", room.Code)
		}
		if _, dup := seen[room.Code]; dup {
			t.Fatalf("duplicate live room code %q", room.Code)
		}
		seen[room.Code] = struct{}{}
	}
}

func TestAddPlayerEnforcesCapacity(t *testing.T) {
	dir := testDirectory(time.Now)
	settings := DefaultSettings()
	room := dir.CreateRoom(settings)

	for i := 0; i < settings.MaxPlayers; i++ {
		if err := dir.AddPlayer(room.Code, fmt.Sprintf("p%d", i)); err != nil {
			t.Fatalf("seat %d: %v", i, err)
		}
	}
	if err := dir.AddPlayer(room.Code, "one-too-many"); err != domain.ErrRoomFull {
		t.Fatalf("expected ErrRoomFull on player %d, got %v", settings.MaxPlayers+1, err)
	}
}

func TestAddPlayerRejectsDuplicate(t *testing.T) {
	dir := testDirectory(time.Now)
	room := dir.CreateRoom(DefaultSettings())

	if err := dir.AddPlayer(room.Code, "p1"); err != nil {
		t.Fatalf("seat: %v", err)
	}
	if err := dir.AddPlayer(room.Code, "p1"); err != domain.ErrPlayerAlreadyInRoom {
		t.Fatalf("expected ErrPlayerAlreadyInRoom, got %v", err)
	}
}

func TestRemovePlayerIdempotent(t *testing.T) {
	dir := testDirectory(time.Now)
	room := dir.CreateRoom(DefaultSettings())
	_ = dir.AddPlayer(room.Code, "p1")

	dir.RemovePlayer(room.Code, "p1")
	dir.RemovePlayer(room.Code, "p1")          // no-op
	dir.RemovePlayer("ZZZZZZ", "p1")           // unknown room: no-op
	dir.RemovePlayer(room.Code, "never-there") // unknown player: no-op

	if len(room.Players) != 0 {
		t.Fatalf("expected empty room, got %v", room.Players)
	}
}

func TestGetTouchesActivity(t *testing.T) {
	current := time.Unix(1000, 0)
	dir := testDirectory(func() time.Time { return current })
	room := dir.CreateRoom(DefaultSettings())

	current = current.Add(time.Hour)
	if _, ok := dir.Get(room.Code); !ok {
		t.Fatalf("expected room")
	}
	if !room.LastActivity.Equal(current) {
		t.Fatalf("expected activity refreshed to %v, got %v", current, room.LastActivity)
	}
}

func TestSweepIdleRemovesStaleRoomsRegardlessOfStatus(t *testing.T) {
	current := time.Unix(1000, 0)
	dir := testDirectory(func() time.Time { return current })

	stale := dir.CreateRoom(DefaultSettings())
	stale.Status = domain.StatusPlaying

	current = current.Add(3 * time.Hour)
	fresh := dir.CreateRoom(DefaultSettings())

	removed := dir.SweepIdle(2 * time.Hour)
	if len(removed) != 1 || removed[0].Code != stale.Code {
		t.Fatalf("expected only the stale room swept, got %v", removed)
	}
	if _, ok := dir.Peek(stale.Code); ok {
		t.Fatalf("stale room still present")
	}
	if _, ok := dir.Peek(fresh.Code); !ok {
		t.Fatalf("fresh room swept")
	}
}
