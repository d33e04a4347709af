package app

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mathbattle-service/internal/domain"
)

// Tally tracks correct/total counters for one category or difficulty bucket.
type Tally struct {
	Correct int
	Total   int
}

// Player is a session-scoped identity bound to a single connection. Records
// are deleted on disconnect and never reused under a different name.
type Player struct {
	ID              string
	ConnectionID    string
	Name            string
	IsHost          bool
	Score           int
	Streak          int
	BestStreak      int
	Correct         int
	Wrong           int
	CategoryStats   map[domain.Category]*Tally
	DifficultyStats map[domain.Difficulty]*Tally
	ResponseTimes   []time.Duration
	JoinedAt        time.Time

	joinSeq int // final ranking tie-break
}

// AvgResponse is the running average of the player's measured latencies.
func (p *Player) AvgResponse() time.Duration {
	if len(p.ResponseTimes) == 0 {
		return 0
	}
	total := lo.Sum(p.ResponseTimes)
	return total / time.Duration(len(p.ResponseTimes))
}

// Accuracy returns the correct-answer percentage over all attempts.
func (p *Player) Accuracy() float64 {
	attempts := p.Correct + p.Wrong
	if attempts == 0 {
		return 0
	}
	return float64(p.Correct) / float64(attempts) * 100
}

// Info projects the client-facing view.
func (p *Player) Info() domain.PlayerInfo {
	return domain.PlayerInfo{ID: p.ID, Name: p.Name, IsHost: p.IsHost, Score: p.Score}
}

// Roster tracks every connected player's identity, score, streaks and
// per-category/difficulty statistics. It is not safe for concurrent use; the
// engine serializes access.
type Roster struct {
	players map[string]*Player
	byConn  map[string]string
	seq     int
	now     func() time.Time
}

func NewRoster() *Roster {
	return newRosterWithClock(time.Now)
}

func newRosterWithClock(now func() time.Time) *Roster {
	return &Roster{
		players: make(map[string]*Player),
		byConn:  make(map[string]string),
		now:     now,
	}
}

// CreatePlayer registers a new identity for a connection. Names must be 2-20
// characters of letters, digits, spaces, underscores or hyphens.
func (r *Roster) CreatePlayer(connectionID, name string, isHost bool) (*Player, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return nil, domain.ErrInvalidName
	}
	if _, taken := r.byConn[connectionID]; taken {
		return nil, domain.ErrDuplicateConnection
	}

	r.seq++
	player := &Player{
		ID:              uuid.NewString(),
		ConnectionID:    connectionID,
		Name:            name,
		IsHost:          isHost,
		CategoryStats:   make(map[domain.Category]*Tally),
		DifficultyStats: make(map[domain.Difficulty]*Tally),
		JoinedAt:        r.now(),
		joinSeq:         r.seq,
	}
	r.players[player.ID] = player
	r.byConn[connectionID] = player.ID
	return player, nil
}

// Get looks a player up by id.
func (r *Roster) Get(playerID string) (*Player, bool) {
	p, ok := r.players[playerID]
	return p, ok
}

// GetByConnection resolves the player bound to a connection.
func (r *Roster) GetByConnection(connectionID string) (*Player, bool) {
	id, ok := r.byConn[connectionID]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// UpdateScore applies the outcome of one answered round: a non-negative point
// delta, streak bookkeeping and category/difficulty tallies.
func (r *Roster) UpdateScore(playerID string, delta int, correct bool, responseTime time.Duration, category domain.Category, difficulty domain.Difficulty) (*Player, error) {
	p, ok := r.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}

	if delta > 0 {
		p.Score += delta
	}
	if correct {
		p.Correct++
		p.Streak++
		if p.Streak > p.BestStreak {
			p.BestStreak = p.Streak
		}
	} else {
		p.Wrong++
		p.Streak = 0
	}

	catStat := p.CategoryStats[category]
	if catStat == nil {
		catStat = &Tally{}
		p.CategoryStats[category] = catStat
	}
	catStat.Total++
	diffStat := p.DifficultyStats[difficulty]
	if diffStat == nil {
		diffStat = &Tally{}
		p.DifficultyStats[difficulty] = diffStat
	}
	diffStat.Total++
	if correct {
		catStat.Correct++
		diffStat.Correct++
	}

	p.ResponseTimes = append(p.ResponseTimes, responseTime)
	return p, nil
}

// Rank orders the given players by score (desc), then average response time
// (asc), then join order, and assigns 1-based rank positions.
func (r *Roster) Rank(playerIDs []string) []domain.Standing {
	players := make([]*Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.players[id]; ok {
			players = append(players, p)
		}
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		ai, aj := players[i].AvgResponse(), players[j].AvgResponse()
		if ai != aj {
			return ai < aj
		}
		return players[i].joinSeq < players[j].joinSeq
	})

	return lo.Map(players, func(p *Player, i int) domain.Standing {
		avgMs := p.AvgResponse().Milliseconds()
		accuracy := p.Accuracy()
		return domain.Standing{
			Rank:          i + 1,
			PlayerID:      p.ID,
			Name:          p.Name,
			Score:         p.Score,
			Correct:       p.Correct,
			Total:         p.Correct + p.Wrong,
			Accuracy:      accuracy,
			AvgResponseMs: avgMs,
			BestStreak:    p.BestStreak,
			Performance:   performanceLabel(accuracy, avgMs),
		}
	})
}

// TransferHost flags the given player as host. The caller keeps the
// exactly-one-host invariant by clearing the previous holder.
func (r *Roster) TransferHost(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.IsHost = true
	return nil
}

// Remove deletes the player record entirely. Idempotent.
func (r *Roster) Remove(playerID string) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	delete(r.byConn, p.ConnectionID)
	delete(r.players, playerID)
}

func validName(name string) bool {
	if n := len([]rune(name)); n < 2 || n > 20 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func performanceLabel(accuracy float64, avgResponseMs int64) string {
	switch {
	case accuracy >= 90 && avgResponseMs <= 5000:
		return "math wizard"
	case accuracy >= 75:
		return "sharp"
	case accuracy >= 50:
		return "solid"
	case accuracy >= 25:
		return "warming up"
	default:
		return "keep practicing"
	}
}
