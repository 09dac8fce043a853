package marketvalue

// Point is one entry of a player's market value development. Values are
// passed through from the provider as decoded JSON scalars.
type Point struct {
	Age                    any `json:"age"`
	MarketValueUnformatted any `json:"marketValueUnformatted"`
	MarketValueCurrency    any `json:"marketValueCurrency"`
	ClubName               any `json:"clubName"`
	ClubImage              any `json:"clubImage"`
	SeasonID               any `json:"seasonID"`
}

// History is the ordered market value development of a player.
type History []Point

// Query identifies a market value lookup.
type Query struct {
	PlayerID string `query:"player_id" validate:"required"`
}
