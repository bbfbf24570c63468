package promotion

import (
	"time"

	"github.com/google/uuid"
)

// Window a promotion banner stays visible after upload
const VisibilityWindow = 24 * time.Hour

// Promotion is an uploaded banner, visible for 24 hours. Expiry is computed
// from created_at at read time, never stored.
type Promotion struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	ImageKey  string    `db:"image_key" json:"-"`
	PackageID *string   `db:"package_id" json:"package_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Active reports whether the banner is still inside its visibility window
func (p *Promotion) Active(now time.Time) bool {
	return now.Sub(p.CreatedAt) < VisibilityWindow
}
