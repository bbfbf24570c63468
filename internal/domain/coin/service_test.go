package coin

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type fakeLedger struct {
	balance int64
	history []Transaction
}

func (f *fakeLedger) Balance(ctx context.Context, profileID uuid.UUID) (int64, error) {
	return f.balance, nil
}

func (f *fakeLedger) Credit(ctx context.Context, profileID uuid.UUID, amount int64, reason Reason, referenceID string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	f.balance += amount
	f.history = append(f.history, Transaction{ProfileID: profileID, Amount: amount, Reason: reason})
	return f.balance, nil
}

func (f *fakeLedger) History(ctx context.Context, profileID uuid.UUID) ([]Transaction, error) {
	return f.history, nil
}

func TestRewardAdWatch(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewService(ledger, 5)
	profileID := uuid.New()

	// No cap: every completed ad pays out
	for i := 1; i <= 3; i++ {
		balance, err := svc.RewardAdWatch(context.Background(), profileID)
		if err != nil {
			t.Fatalf("RewardAdWatch returned error: %v", err)
		}
		if balance != int64(i*5) {
			t.Fatalf("expected balance %d after %d rewards, got %d", i*5, i, balance)
		}
	}

	if len(ledger.history) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", len(ledger.history))
	}
	for _, entry := range ledger.history {
		if entry.Reason != ReasonAdReward {
			t.Fatalf("expected ad_reward reason, got %s", entry.Reason)
		}
	}
}
