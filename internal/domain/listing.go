package domain

import "time"

// Listing is the platform shape of a vehicle listing, whether it came from the
// dealer network or was submitted by a member
type Listing struct {
	ID                      string   `json:"id"`
	Year                    int      `json:"year"`
	Make                    string   `json:"make"`
	Model                   string   `json:"model"`
	Price                   int      `json:"price"`
	MSRP                    int      `json:"msrp"`
	CurrentBid              int      `json:"currentBid"`
	Tag                     Tribe    `json:"tag"`
	Miles                   int      `json:"miles"`
	MilesDisplay            string   `json:"miles_display"`
	City                    string   `json:"city"`
	State                   string   `json:"state"`
	Location                string   `json:"location"`
	Description             string   `json:"description"`
	Media                   Media    `json:"media"`
	Images                  []string `json:"images"`
	ImageURL                string   `json:"imageUrl"`
	Specs                   Specs    `json:"specs"`
	EngineDescription       string   `json:"engine_description,omitempty"`
	TransmissionDescription string   `json:"transmission_description,omitempty"`
	VIN                     string   `json:"vin,omitempty"`
	DealerName              string   `json:"dealer_name,omitempty"`
	Seller                  Seller   `json:"seller"`
	Origin                  string   `json:"origin"`
	Source                  string   `json:"source"`
	Status                  string   `json:"status,omitempty"`
}

// Media mirrors the upstream photo block so detail pages can read either shape
type Media struct {
	PhotoLinks []string `json:"photo_links"`
}

// Specs holds drivetrain details shown on the listing detail page
type Specs struct {
	Engine       string `json:"engine"`
	Transmission string `json:"transmission"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	VIN          string `json:"vin,omitempty"`
}

// Seller identifies who is offering the vehicle
type Seller struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Tribes []Tribe `json:"tribes"`
	Avatar *string `json:"avatar"`
}

// CacheEntry is a cached listing plus the time it was stored
type CacheEntry struct {
	Listing  *Listing  `json:"listing"`
	StoredAt time.Time `json:"storedAt"`
}

// SearchQuery represents a marketplace search request
type SearchQuery struct {
	Text        string `json:"search,omitempty"`
	PostalCode  string `json:"zip,omitempty"`
	RadiusMiles int    `json:"radius,omitempty"`
}

// Listing origins and sources
const (
	OriginMarketplace = "Marketplace"
	OriginTribe       = "Tribe"

	SourceMarketCheck = "marketcheck"
	SourceInternal    = "internal"

	SellerTypeDealer  = "dealer"
	SellerTypePrivate = "private"
)
