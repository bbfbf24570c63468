package video

import (
	"time"

	"github.com/google/uuid"
)

// Window a video stays visible after upload
const VisibilityWindow = 24 * time.Hour

// SourceType distinguishes embedded players from uploaded files
type SourceType string

const (
	SourceEmbed  SourceType = "embed"
	SourceUpload SourceType = "upload"
)

// Reaction is a viewer's thumbs up or down
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Video is an admin-published clip, visible for 24 hours after creation
type Video struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	URL        string     `db:"url" json:"url"`
	SourceType SourceType `db:"source_type" json:"source_type"`
	StorageKey string     `db:"storage_key" json:"-"`
	Duration   int        `db:"duration" json:"duration"` // minutes
	Likes      int64      `db:"likes" json:"likes"`
	Dislikes   int64      `db:"dislikes" json:"dislikes"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Active reports whether the video is still inside its visibility window
func (v *Video) Active(now time.Time) bool {
	return now.Sub(v.CreatedAt) < VisibilityWindow
}
