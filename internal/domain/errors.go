package domain

import "errors"

var (
	// ErrListingNotFound is returned when a listing exists in neither the dealer network nor the internal store
	ErrListingNotFound = errors.New("listing not found")

	// ErrInvalidListingID is returned when a listing id is neither a composite id nor a UUID
	ErrInvalidListingID = errors.New("invalid listing id format")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache or is no longer fresh
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrUpstreamFailure is returned when a MarketCheck API request fails
	ErrUpstreamFailure = errors.New("MarketCheck API request failed")

	// ErrMissingAPIKey is returned when the MarketCheck client is built without a credential
	ErrMissingAPIKey = errors.New("MarketCheck API key not configured")

	// ErrInternalListingsUnavailable is returned when no internal listing store is configured
	ErrInternalListingsUnavailable = errors.New("internal listing store unavailable")
)
