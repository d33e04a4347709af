package app

import (
	"sort"
	"time"

	"mathbattle-service/internal/domain"
)

// matchPhase is the round state machine's position.
type matchPhase int

const (
	phaseInitializing matchPhase = iota
	phaseAwaitingAnswers
	phaseRoundComplete
	phaseFinished
)

// Match owns one room's question sequence, the active round's answer barrier
// and the immutable round-history log. All mutation happens under the engine
// lock; timers re-enter through the engine with a generation check.
type Match struct {
	questions  []domain.Question
	round      int // index into questions
	current    *domain.Question
	answers    map[string]*domain.RoundAnswer
	roundStart time.Time
	history    []domain.RoundResult
	phase      matchPhase
	startedAt  time.Time

	// generation increments on every phase transition; a scheduled callback
	// carrying a stale generation must not act.
	generation int
	timer      *time.Timer
}

func newMatch(questions []domain.Question, startedAt time.Time) *Match {
	return &Match{
		questions: questions,
		phase:     phaseInitializing,
		startedAt: startedAt,
		answers:   make(map[string]*domain.RoundAnswer),
	}
}

// TotalQuestions is the size of the pre-generated sequence.
func (m *Match) TotalQuestions() int { return len(m.questions) }

// CurrentQuestion returns the in-flight question, nil outside a round.
func (m *Match) CurrentQuestion() *domain.Question { return m.current }

// History returns the ordered round-result log.
func (m *Match) History() []domain.RoundResult { return m.history }

// Finished reports whether the session is read-only.
func (m *Match) Finished() bool { return m.phase == phaseFinished }

// beginRound arms the next question and clears the answer barrier.
func (m *Match) beginRound(now time.Time) *domain.Question {
	m.current = &m.questions[m.round]
	m.answers = make(map[string]*domain.RoundAnswer)
	m.roundStart = now
	m.phase = phaseAwaitingAnswers
	m.generation++
	return m.current
}

// recordAnswer stores exactly one answer per player per round.
func (m *Match) recordAnswer(a *domain.RoundAnswer) error {
	if m.phase != phaseAwaitingAnswers || m.current == nil {
		return domain.ErrNoActiveQuestion
	}
	if _, dup := m.answers[a.PlayerID]; dup {
		return domain.ErrAlreadyAnswered
	}
	m.answers[a.PlayerID] = a
	return nil
}

// barrierMet reports whether every currently seated player has answered.
// Answers from players who have since disconnected do not count toward the
// barrier, and a shrunken roster is re-checked on removal.
func (m *Match) barrierMet(seated []string) bool {
	if m.phase != phaseAwaitingAnswers || len(seated) == 0 {
		return false
	}
	answered := 0
	for _, id := range seated {
		if _, ok := m.answers[id]; ok {
			answered++
		}
	}
	return answered >= len(seated)
}

// completeRound freezes the active round into a RoundResult and appends it to
// the history. standings is the overall ranking snapshot at this point.
func (m *Match) completeRound(standings []domain.Standing) domain.RoundResult {
	m.phase = phaseRoundComplete
	m.generation++

	ranked := make([]domain.RoundAnswer, 0, len(m.answers))
	for _, a := range m.answers {
		ranked = append(ranked, *a)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Correct != ranked[j].Correct {
			return ranked[i].Correct
		}
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].ResponseTime < ranked[j].ResponseTime
	})

	correct := 0
	var totalLatency, fastest time.Duration
	for i, a := range ranked {
		if a.Correct {
			correct++
		}
		totalLatency += a.ResponseTime
		if i == 0 || a.ResponseTime < fastest {
			fastest = a.ResponseTime
		}
	}
	accuracy := 0.0
	var avgMs int64
	if len(ranked) > 0 {
		accuracy = float64(correct) / float64(len(ranked)) * 100
		avgMs = (totalLatency / time.Duration(len(ranked))).Milliseconds()
	}

	result := domain.RoundResult{
		Question:       *m.current,
		CorrectAnswer:  m.current.Answer,
		Answers:        ranked,
		Accuracy:       accuracy,
		AvgResponseMs:  avgMs,
		FastestMs:      fastest.Milliseconds(),
		Standings:      standings,
		QuestionNumber: m.round + 1,
	}
	m.history = append(m.history, result)
	return result
}

// advance moves to the next round, or reports false when the sequence is
// exhausted.
func (m *Match) advance() bool {
	m.round++
	m.generation++
	if m.round >= len(m.questions) {
		m.phase = phaseFinished
		m.current = nil
		return false
	}
	return true
}

// stopTimer cancels whatever transition is pending. Safe to call repeatedly.
func (m *Match) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}
