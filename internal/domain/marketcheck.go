package domain

// MarketCheckListing represents one vehicle record from the MarketCheck active search API.
// Any nested block may be missing from the payload.
type MarketCheckListing struct {
	ID      string             `json:"id"`
	VIN     string             `json:"vin"`
	Heading string             `json:"heading,omitempty"`
	Price   float64            `json:"price"`
	Miles   float64            `json:"miles"`
	Build   *MarketCheckBuild  `json:"build,omitempty"`
	Dealer  *MarketCheckDealer `json:"dealer,omitempty"`
	Media   *MarketCheckMedia  `json:"media,omitempty"`
	Extra   *MarketCheckExtra  `json:"extra,omitempty"`
}

// MarketCheckBuild is the decoded build sheet of a vehicle
type MarketCheckBuild struct {
	Year         int    `json:"year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Trim         string `json:"trim,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
}

// MarketCheckDealer is the selling dealer
type MarketCheckDealer struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip,omitempty"`
}

// MarketCheckMedia holds listing photos
type MarketCheckMedia struct {
	PhotoLinks []string `json:"photo_links"`
}

// MarketCheckExtra holds free-text dealer content
type MarketCheckExtra struct {
	Description string `json:"description,omitempty"`
}

// MarketCheckSearchResponse represents the response from the active car search API
type MarketCheckSearchResponse struct {
	NumFound int                  `json:"num_found"`
	Listings []MarketCheckListing `json:"listings"`
}
