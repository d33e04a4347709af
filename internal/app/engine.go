package app

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"mathbattle-service/internal/domain"
	"mathbattle-service/internal/question"
)

// Broadcaster delivers engine events to connected clients. Broadcast fans out
// to every member of a room; Unicast addresses one connection. The transport
// layer provides the implementation.
type Broadcaster interface {
	Broadcast(roomCode string, event domain.Event)
	Unicast(connectionID string, event domain.Event)
}

// BankRepository supplies the predefined question bank (cached in memory or
// Redis, loaded from Postgres or static data).
type BankRepository interface {
	GetBank(ctx context.Context) (question.Bank, error)
}

// Config tunes the engine's defaults and timing.
type Config struct {
	Defaults       domain.GameSettings
	StartDelay     time.Duration // countdown before the first question
	NextRoundDelay time.Duration // pause between round results and the next question
	RoundGrace     time.Duration // slack past the question time limit before force-closing a round
	IdleTimeout    time.Duration // rooms idle this long are swept
	SweepInterval  time.Duration
}

// DefaultSettings are the room settings before host overrides.
func DefaultSettings() domain.GameSettings {
	return domain.GameSettings{
		MaxPlayers:     MaxPlayersCap,
		QuestionTime:   30,
		TotalQuestions: 10,
		Difficulty:     domain.DifficultyMedium,
		Categories:     domain.AllCategories(),
	}
}

func (c Config) withDefaults() Config {
	if c.Defaults.MaxPlayers == 0 {
		c.Defaults = DefaultSettings()
	}
	if c.StartDelay == 0 {
		c.StartDelay = 3 * time.Second
	}
	if c.NextRoundDelay == 0 {
		c.NextRoundDelay = 5 * time.Second
	}
	if c.RoundGrace == 0 {
		c.RoundGrace = 2 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 2 * time.Hour
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 5 * time.Minute
	}
	return c
}

// Engine serializes every inbound event (join, answer, start, disconnect,
// timer firing) under one lock, making each operation atomic with respect to
// all sessions. No blocking I/O happens while the lock is held.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	directory *Directory
	roster    *Roster
	generator *question.Generator
	banks     BankRepository
	bcast     Broadcaster
	now       func() time.Time

	sweepStop chan struct{}
	sweepOnce sync.Once
}

// NewEngine wires the engine from its collaborators. presence may be nil.
func NewEngine(cfg Config, banks BankRepository, bcast Broadcaster, presence Presence) *Engine {
	return newEngine(cfg, banks, bcast, presence, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// newEngine allows deterministic clocks and randomness in tests.
func newEngine(cfg Config, banks BankRepository, bcast Broadcaster, presence Presence, now func() time.Time, rnd *rand.Rand) *Engine {
	return &Engine{
		cfg:       cfg.withDefaults(),
		directory: newDirectory(presence, rnd, now),
		roster:    newRosterWithClock(now),
		generator: question.NewWithRand(rnd),
		banks:     banks,
		bcast:     bcast,
		now:       now,
		sweepStop: make(chan struct{}),
	}
}

// CreateRoom registers the creator as host and allocates a room.
func (e *Engine) CreateRoom(connectionID, playerName string, overrides domain.GameSettings) (domain.RoomCreatedPayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.roster.CreatePlayer(connectionID, playerName, true)
	if err != nil {
		return domain.RoomCreatedPayload{}, err
	}

	settings := mergeSettings(e.cfg.Defaults, overrides)
	room := e.directory.CreateRoom(settings)
	if err := e.directory.AddPlayer(room.Code, player.ID); err != nil {
		e.roster.Remove(player.ID)
		e.directory.Close(room.Code)
		return domain.RoomCreatedPayload{}, err
	}
	room.HostID = player.ID

	log.Printf("room %s created by %s", room.Code, player.Name)
	return domain.RoomCreatedPayload{
		RoomCode: room.Code,
		Player:   player.Info(),
		Settings: settings,
	}, nil
}

// JoinRoom seats a new player in a waiting room and notifies its members.
func (e *Engine) JoinRoom(connectionID, playerName, code string) (domain.RoomJoinedPayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, ok := e.directory.Get(code)
	if !ok {
		return domain.RoomJoinedPayload{}, domain.ErrRoomNotFound
	}
	if room.Status != domain.StatusWaiting {
		return domain.RoomJoinedPayload{}, domain.ErrGameAlreadyStarted
	}
	if len(room.Players) >= room.Settings.MaxPlayers {
		return domain.RoomJoinedPayload{}, domain.ErrRoomFull
	}

	player, err := e.roster.CreatePlayer(connectionID, playerName, false)
	if err != nil {
		return domain.RoomJoinedPayload{}, err
	}
	if err := e.directory.AddPlayer(code, player.ID); err != nil {
		e.roster.Remove(player.ID)
		return domain.RoomJoinedPayload{}, err
	}

	e.bcast.Broadcast(code, domain.Event{
		Type: domain.EventPlayerJoined,
		Payload: domain.PlayerJoinedPayload{
			Player:  player.Info(),
			Players: e.playerInfos(room),
		},
	})
	return domain.RoomJoinedPayload{
		RoomCode: code,
		Player:   player.Info(),
		Players:  e.playerInfos(room),
		Settings: room.Settings,
	}, nil
}

// StartGame freezes the roster, generates the full question sequence up front
// and schedules the first round. Host-only; needs at least 2 players.
func (e *Engine) StartGame(ctx context.Context, connectionID, code string) error {
	// Fetch the bank before taking the lock: no blocking I/O inside state
	// transitions.
	bank, err := e.banks.GetBank(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room, ok := e.directory.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	player, ok := e.roster.GetByConnection(connectionID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if player.ID != room.HostID {
		return domain.ErrNotHost
	}
	if room.Status != domain.StatusWaiting {
		return domain.ErrGameAlreadyStarted
	}
	if len(room.Players) < 2 {
		return domain.ErrNotEnoughPlayers
	}

	questions := e.generator.GenerateSet(bank, room.Settings.TotalQuestions, room.Settings.Difficulty, room.Settings.Categories)
	for i := range questions {
		questions[i].TimeLimit = room.Settings.QuestionTime
	}

	match := newMatch(questions, e.now())
	room.Match = match
	room.Status = domain.StatusStarting

	e.bcast.Broadcast(code, domain.Event{
		Type: domain.EventGameStarted,
		Payload: domain.GameStartedPayload{
			TotalQuestions: len(questions),
			CountdownMs:    int(e.cfg.StartDelay.Milliseconds()),
		},
	})
	log.Printf("room %s: game started with %d questions", code, len(questions))

	e.scheduleLocked(room, e.cfg.StartDelay, func(room *Room) {
		e.beginRoundLocked(room)
	})
	return nil
}

// SubmitAnswer validates and records one player's answer for the active
// round. Latency is measured server-side; the client-reported remaining time
// feeds only the speed bonus.
func (e *Engine) SubmitAnswer(connectionID, code, rawAnswer string, timeRemaining int) (domain.AnswerResultPayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, ok := e.directory.Get(code)
	if !ok {
		return domain.AnswerResultPayload{}, domain.ErrRoomNotFound
	}
	player, ok := e.roster.GetByConnection(connectionID)
	if !ok || !room.HasPlayer(player.ID) {
		return domain.AnswerResultPayload{}, domain.ErrPlayerNotFound
	}
	match := room.Match
	if match == nil || match.CurrentQuestion() == nil {
		return domain.AnswerResultPayload{}, domain.ErrNoActiveQuestion
	}
	q := match.CurrentQuestion()

	now := e.now()
	correct := answersMatch(rawAnswer, q.Answer)

	if timeRemaining < 0 {
		timeRemaining = 0
	} else if timeRemaining > q.TimeLimit {
		timeRemaining = q.TimeLimit
	}

	points := 0
	streakAfter := 0
	if correct {
		streakAfter = player.Streak + 1
		points = Points(q.Difficulty, q.TimeLimit, timeRemaining, streakAfter)
	}

	answer := &domain.RoundAnswer{
		PlayerID:      player.ID,
		PlayerName:    player.Name,
		Answer:        rawAnswer,
		Correct:       correct,
		ResponseTime:  now.Sub(match.roundStart),
		TimeRemaining: timeRemaining,
		Points:        points,
		SubmittedAt:   now,
	}
	if err := match.recordAnswer(answer); err != nil {
		return domain.AnswerResultPayload{}, err
	}
	if _, err := e.roster.UpdateScore(player.ID, points, correct, answer.ResponseTime, q.Category, q.Difficulty); err != nil {
		return domain.AnswerResultPayload{}, err
	}

	if match.barrierMet(room.Players) {
		e.completeRoundLocked(room)
	}

	return domain.AnswerResultPayload{
		Correct:       correct,
		CorrectAnswer: q.Answer,
		PointsEarned:  points,
		TotalScore:    player.Score,
		Streak:        player.Streak,
	}, nil
}

// Disconnect tears down whatever the connection's player left behind:
// roster entry, room slot, host role and the active round's barrier.
func (e *Engine) Disconnect(connectionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.roster.GetByConnection(connectionID)
	if !ok {
		return
	}

	room, inRoom := e.directory.FindByPlayer(player.ID)
	e.roster.Remove(player.ID)
	if !inRoom {
		return
	}

	e.directory.RemovePlayer(room.Code, player.ID)
	log.Printf("room %s: player %s disconnected", room.Code, player.Name)

	effect := onPlayerRemoved(room, player.ID)
	if effect.closeRoom {
		e.directory.Close(room.Code)
		return
	}

	e.bcast.Broadcast(room.Code, domain.Event{
		Type: domain.EventPlayerDisconnected,
		Payload: domain.PlayerDisconnectedPayload{
			PlayerID: player.ID,
			Name:     player.Name,
			Players:  e.playerInfos(room),
		},
	})

	if effect.newHostID != "" {
		room.HostID = effect.newHostID
		if err := e.roster.TransferHost(effect.newHostID); err == nil {
			if host, ok := e.roster.Get(effect.newHostID); ok {
				e.bcast.Broadcast(room.Code, domain.Event{
					Type:    domain.EventHostChanged,
					Payload: domain.HostChangedPayload{NewHost: host.Info()},
				})
			}
		}
	}

	if effect.reevaluateBarrier && room.Match != nil && room.Match.barrierMet(room.Players) {
		e.completeRoundLocked(room)
	}
}

// CloseRoom discards a room and cancels its scheduled transitions.
func (e *Engine) CloseRoom(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.directory.Close(code)
}

// Room exposes a room for read-only inspection (transport, tests).
func (e *Engine) Room(code string) (*Room, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.directory.Peek(code)
}

// StartSweeper launches the periodic idle-room garbage collector.
func (e *Engine) StartSweeper() {
	ticker := time.NewTicker(e.cfg.SweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.sweepIdle()
			case <-e.sweepStop:
				return
			}
		}
	}()
}

// Shutdown stops the sweeper and closes every live room.
func (e *Engine) Shutdown() {
	e.sweepOnce.Do(func() { close(e.sweepStop) })

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, room := range e.directory.Rooms() {
		e.directory.Close(room.Code)
	}
}

func (e *Engine) sweepIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.directory.SweepIdle(e.cfg.IdleTimeout)
	for _, room := range removed {
		for _, id := range room.Players {
			e.roster.Remove(id)
		}
		log.Printf("room %s: swept after %s idle", room.Code, e.cfg.IdleTimeout)
	}
}

// removalEffect is the intent produced by removing a player from a room.
type removalEffect struct {
	closeRoom         bool
	newHostID         string
	reevaluateBarrier bool
}

// onPlayerRemoved decides what a removal implies: closing an empty room,
// re-electing a host (earliest joiner), and re-checking the answer barrier so
// a round never stalls waiting for a player who left.
func onPlayerRemoved(room *Room, playerID string) removalEffect {
	var effect removalEffect
	if len(room.Players) == 0 {
		effect.closeRoom = true
		return effect
	}
	if room.HostID == playerID {
		effect.newHostID = room.Players[0]
	}
	if room.Match != nil && !room.Match.Finished() {
		effect.reevaluateBarrier = true
	}
	return effect
}

// beginRoundLocked arms the next question and its server-side deadline.
func (e *Engine) beginRoundLocked(room *Room) {
	match := room.Match
	q := match.beginRound(e.now())
	room.Status = domain.StatusPlaying

	e.bcast.Broadcast(room.Code, domain.Event{
		Type: domain.EventNewQuestion,
		Payload: domain.NewQuestionPayload{
			Question:       *q,
			QuestionNumber: match.round + 1,
			TotalQuestions: match.TotalQuestions(),
			TimeLimit:      q.TimeLimit,
		},
	})

	deadline := time.Duration(q.TimeLimit)*time.Second + e.cfg.RoundGrace
	e.scheduleLocked(room, deadline, func(room *Room) {
		// Deadline fired with the round still open: close it with whatever
		// answers arrived.
		if room.Match.phase == phaseAwaitingAnswers {
			e.completeRoundLocked(room)
		}
	})
}

// completeRoundLocked freezes the round, broadcasts results and schedules the
// advance to the next question or the finish.
func (e *Engine) completeRoundLocked(room *Room) {
	match := room.Match
	match.stopTimer()
	standings := e.roster.Rank(room.Players)
	result := match.completeRound(standings)
	room.Status = domain.StatusShowingResults

	e.bcast.Broadcast(room.Code, domain.Event{
		Type:    domain.EventRoundResults,
		Payload: result,
	})

	e.scheduleLocked(room, e.cfg.NextRoundDelay, func(room *Room) {
		if room.Match.advance() {
			e.beginRoundLocked(room)
		} else {
			e.finishLocked(room)
		}
	})
}

// finishLocked makes the session read-only and announces the final ranking.
func (e *Engine) finishLocked(room *Room) {
	match := room.Match
	match.stopTimer()
	room.Status = domain.StatusFinished

	standings := e.roster.Rank(room.Players)
	final := domain.FinalResults{
		Standings:  standings,
		Rounds:     len(match.History()),
		Duration:   e.now().Sub(match.startedAt).Milliseconds(),
		FinishedAt: e.now(),
	}
	if len(standings) > 0 {
		winner := standings[0]
		final.Winner = &winner
	}

	e.bcast.Broadcast(room.Code, domain.Event{
		Type:    domain.EventGameFinished,
		Payload: final,
	})
	log.Printf("room %s: game finished after %d rounds", room.Code, final.Rounds)
}

// scheduleLocked arms a cancellable transition for the room's match. The
// callback re-validates under the engine lock that the room still exists,
// still owns the same match, and that no other transition happened in
// between; firing against closed or advanced state is a no-op.
func (e *Engine) scheduleLocked(room *Room, delay time.Duration, fn func(*Room)) {
	match := room.Match
	match.stopTimer()
	code := room.Code
	gen := match.generation
	match.timer = time.AfterFunc(delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		current, ok := e.directory.Peek(code)
		if !ok || current.Match != match || match.generation != gen {
			return
		}
		fn(current)
	})
}

func (e *Engine) playerInfos(room *Room) []domain.PlayerInfo {
	infos := make([]domain.PlayerInfo, 0, len(room.Players))
	for _, id := range room.Players {
		if p, ok := e.roster.Get(id); ok {
			infos = append(infos, p.Info())
		}
	}
	return infos
}

// mergeSettings overlays host-provided overrides (zero values mean "keep the
// default") and clamps them to sane bounds.
func mergeSettings(defaults, overrides domain.GameSettings) domain.GameSettings {
	merged := defaults
	if len(merged.Categories) == 0 {
		merged.Categories = domain.AllCategories()
	}
	if overrides.MaxPlayers > 0 {
		merged.MaxPlayers = min(overrides.MaxPlayers, MaxPlayersCap)
	}
	if overrides.QuestionTime > 0 {
		merged.QuestionTime = clampInt(overrides.QuestionTime, 5, 120)
	}
	if overrides.TotalQuestions > 0 {
		merged.TotalQuestions = clampInt(overrides.TotalQuestions, 1, 50)
	}
	switch overrides.Difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		merged.Difficulty = overrides.Difficulty
	}
	if len(overrides.Categories) > 0 {
		valid := make([]domain.Category, 0, len(overrides.Categories))
		for _, c := range overrides.Categories {
			switch c {
			case domain.CategoryArithmetic, domain.CategoryLogic, domain.CategoryGeometry:
				valid = append(valid, c)
			}
		}
		if len(valid) > 0 {
			merged.Categories = valid
		}
	}
	return merged
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// answersMatch compares answers after trimming and case folding; numeric
// answers compare as their string form.
func answersMatch(submitted, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(canonical))
}
