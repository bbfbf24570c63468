package promotion

// AdminPromotion decorates a promotion with its computed expiry state
type AdminPromotion struct {
	Promotion
	Expired bool `json:"expired"`
}
