package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a subscriber account, keyed by phone number.
// Coins are mutated only through the coin ledger; profiles are never deleted.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Coins     int64     `db:"coins" json:"coins"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
