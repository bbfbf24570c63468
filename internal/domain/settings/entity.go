package settings

// Keys for admin-adjustable integers
const (
	KeyCoinMultiplier = "coin_multiplier"
	KeyWelcomeBonus   = "welcome_bonus"
)

// Settings holds the coin-economy knobs exposed to the admin console
type Settings struct {
	CoinMultiplier int `json:"coin_multiplier"`
	WelcomeBonus   int `json:"welcome_bonus"`
}
