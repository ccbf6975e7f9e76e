package kurakot

import "time"

// visual item names
const (
	FxNoTax         = "property_no_tax"
	FxVolunteer     = "volunteer_initiative"
	FxSale          = "property_sale"
	FxPurchased     = "property_purchased"
	FxAbandoned     = "property_abandoned"
	FxInvest        = "property_invest"
	FxEviction      = "property_eviction"
	FxOpinion       = "community_opinion"
	FxGhost         = "ghost_employee"
	FxGrab          = "property_grab"
	FxCommunityWin  = "community_heart_spirit"
	EmotionHappy    = "happy"
	EmotionAngry    = "angry"
)

// Visual asks the presentation layer to show an item on a tile for a
// while. Fire and forget, the game never waits for it.
type Visual struct {
	Item string        `json:"item"`
	Tile int           `json:"tile"`
	For  time.Duration `json:"for"`
}

// Emotion is a customer reaction on a tile.
type Emotion struct {
	Feeling string `json:"feeling"`
	Tile    int    `json:"tile"`
}

// Sink receives presentation events from the game.
type Sink interface {
	Play(v Visual)
	Emote(e Emotion)
}

type nopSink struct{}

func (nopSink) Play(Visual)   {}
func (nopSink) Emote(Emotion) {}
