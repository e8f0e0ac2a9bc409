package models

// City is a destination that trip stops point at. CostIndex is a relative
// price level (100 = average) and Popularity a ranking score.
type City struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Region     string  `json:"region,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	CostIndex  float64 `json:"cost_index"`
	Popularity int     `json:"popularity"`
	ImageKey   string  `json:"image_key,omitempty"`
}

// CityFilter narrows ListCities. Zero values mean "no filter".
type CityFilter struct {
	Query   string
	Country string
	Limit   int
	Offset  int
}

// Activity is a catalog entry offered in a city.
type Activity struct {
	ID              string  `json:"id"`
	CityID          string  `json:"city_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category"`
	Cost            float64 `json:"cost"`
	DurationMinutes int     `json:"duration_minutes"`
}

type ActivityFilter struct {
	CityID   string
	Category string
	// MaxCost <= 0 disables the cost filter.
	MaxCost float64
}
