package domain

import "context"

// ListingCache stores normalized dealer listings keyed by composite id.
// Get returns ErrCacheMiss when the key is absent or its entry is older than the cache TTL.
type ListingCache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, listing *Listing) error
	Delete(ctx context.Context, key string) error
}

// MarketCheckClient defines the interface for interacting with the MarketCheck inventory API
type MarketCheckClient interface {
	SearchActive(ctx context.Context, query SearchQuery) (*MarketCheckSearchResponse, error)
	SearchByVIN(ctx context.Context, vin string) (*MarketCheckListing, error)
	Ping(ctx context.Context) (int, error)
}

// InternalListingRepository reads community-submitted listings
type InternalListingRepository interface {
	ListActive(ctx context.Context) ([]Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
}
