package request

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes what produced a request
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindWatch    Kind = "watch"
)

// Status of a request. Pending is the only state an admin can move;
// Approved, Rejected and Watched are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusWatched  Status = "Watched"
)

// Request records a bundle purchase or a completed video watch. Package
// fields are copied in at creation so the row survives catalog edits.
type Request struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ProfileID    uuid.UUID  `db:"profile_id" json:"profile_id"`
	ProfileName  string     `db:"profile_name" json:"profile_name"`
	ProfilePhone string     `db:"profile_phone" json:"profile_phone"`
	Kind         Kind       `db:"kind" json:"kind"`
	Status       Status     `db:"status" json:"status"`
	TargetPhone  string     `db:"target_phone" json:"target_phone,omitempty"`
	PackageID    *string    `db:"package_id" json:"package_id,omitempty"`
	PackageName  string     `db:"package_name" json:"package_name,omitempty"`
	Network      string     `db:"network" json:"network,omitempty"`
	PackageCode  string     `db:"package_code" json:"package_code,omitempty"`
	Price        string     `db:"price" json:"price,omitempty"`
	Cost         int64      `db:"cost" json:"cost"`
	VideoID      *string    `db:"video_id" json:"video_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}
