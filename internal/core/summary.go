package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
	Count  int    `json:"count"`
}

// Position is the viewer's net standing across loans, in canonical units.
type Position struct {
	Lent     Money `json:"lent"`
	Borrowed Money `json:"borrowed"`
	Net      Money `json:"net"`
}
