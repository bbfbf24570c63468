package coin

import (
	"time"

	"github.com/google/uuid"
)

// Reason classifies a ledger entry
type Reason string

const (
	ReasonWelcome  Reason = "welcome"
	ReasonReferral Reason = "referral"
	ReasonAdReward Reason = "ad_reward"
	ReasonPurchase Reason = "purchase"
)

// Transaction is one coin ledger entry. Amount is positive for credits,
// negative for debits.
type Transaction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProfileID   uuid.UUID `db:"profile_id" json:"profile_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Reason      Reason    `db:"reason" json:"reason"`
	ReferenceID *string   `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
