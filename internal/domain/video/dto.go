package video

// EmbedRequest publishes a video hosted elsewhere
type EmbedRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=120"`
	URL      string `json:"url" validate:"required,url,max=500"`
	Duration int    `json:"duration" validate:"required,min=1,max=600"`
}

// ReactRequest records a thumbs up or down
type ReactRequest struct {
	Reaction string `json:"reaction" validate:"required,oneof=like dislike"`
}

// AdminVideo decorates a video with its computed expiry state
type AdminVideo struct {
	Video
	Expired bool `json:"expired"`
}
