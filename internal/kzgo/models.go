package kzgo

// A map as returned by the KZ:GO /maps endpoint.
type Map struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Tier int    `json:"tier"`
	// Number of bonus courses, the main course not included
	Bonuses    int    `json:"bonuses"`
	WorkshopID string `json:"workshopId"`
	SP         bool   `json:"sp"`
	VP         bool   `json:"vp"`
	SKZ        bool   `json:"skz"`
	VNL        bool   `json:"vnl"`
}
