package models

// Card is one row of the generated card database (db.json).
type Card struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Legality string `json:"legality"`
	CardType string `json:"card_type"`
}

// PricedCard is one row of the price database. PriceTrend is nil when the
// upstream price is missing or unparsable.
type PricedCard struct {
	Name       string   `json:"name"`
	ImageURL   string   `json:"image_url"`
	PriceTrend *float64 `json:"price_trend"`
}

// Card type classifications derived from the type line.
const (
	CardTypeLand     = "land"
	CardTypeCreature = "creature"
	CardTypeOther    = "other"
)
