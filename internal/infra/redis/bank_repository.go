package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"mathbattle-service/internal/domain"
	"mathbattle-service/internal/infra/memory"
	"mathbattle-service/internal/question"
)

const bankKey = "battle:questions:bank"

// BankRepository caches the predefined question bank in Redis as one JSON
// blob with TTL, falling back to a loader on cache miss so several instances
// share one warm copy.
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// storedQuestion carries the canonical answer, which the domain type hides
// from client-facing JSON.
type storedQuestion struct {
	Prompt      string            `json:"prompt"`
	Options     []string          `json:"options"`
	Answer      string            `json:"answer"`
	Explanation string            `json:"explanation,omitempty"`
	Category    domain.Category   `json:"category"`
	Difficulty  domain.Difficulty `json:"difficulty"`
}

func (r *BankRepository) GetBank(ctx context.Context) (question.Bank, error) {
	if bank, ok := r.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if bank, ok := r.fromCache(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		if bank.Size() == 0 {
			return nil, domain.ErrBankEmpty
		}

		var stored []storedQuestion
		for _, byDiff := range bank {
			for _, pool := range byDiff {
				for _, q := range pool {
					stored = append(stored, storedQuestion{
						Prompt:      q.Prompt,
						Options:     q.Options,
						Answer:      q.Answer,
						Explanation: q.Explanation,
						Category:    q.Category,
						Difficulty:  q.Difficulty,
					})
				}
			}
		}
		if raw, err := json.Marshal(stored); err == nil {
			// best-effort write; a miss next time just reloads
			_ = r.client.Set(ctx, bankKey, raw, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(question.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context) (question.Bank, bool) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var stored []storedQuestion
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) == 0 {
		return nil, false
	}
	bank := make(question.Bank)
	for _, s := range stored {
		bank.Add(domain.Question{
			Prompt:      s.Prompt,
			Options:     s.Options,
			Answer:      s.Answer,
			Explanation: s.Explanation,
			Category:    s.Category,
			Difficulty:  s.Difficulty,
		})
	}
	return bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
