package memory

import (
	"context"
	"testing"
	"time"

	"mathbattle-service/internal/domain"
	"mathbattle-service/internal/question"
)

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) (question.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}

func TestBankRepositoryCachesWithTTL(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(question.DefaultBank())}
	repo := NewBankRepository(loader, time.Minute)

	current := time.Unix(1000, 0)
	repo.clock = func() time.Time { return current }

	bank, err := repo.GetBank(context.Background())
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if bank.Size() == 0 {
		t.Fatalf("expected non-empty bank")
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call within TTL hits the cache.
	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	// Past the TTL (plus max jitter) the loader runs again.
	current = current.Add(2 * time.Minute)
	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestBankRepositoryRejectsEmptyBank(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(make(question.Bank)), time.Minute)
	if _, err := repo.GetBank(context.Background()); err != domain.ErrBankEmpty {
		t.Fatalf("expected ErrBankEmpty, got %v", err)
	}
}
