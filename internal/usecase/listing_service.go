package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cartribe/backend/internal/domain"
	"github.com/cartribe/backend/internal/infrastructure/marketcheck"
	"github.com/cartribe/backend/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Upstream operation labels
const (
	OperationSearch    = "search"
	OperationVINLookup = "vin_lookup"
	OperationPing      = "ping"
)

// MetricsRecorder receives cache and upstream observations
type MetricsRecorder interface {
	ObserveCache(hit bool)
	ObserveUpstream(operation, outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCache(bool) {}

func (noopRecorder) ObserveUpstream(string, string, time.Duration) {}

// ListingServiceConfig holds configuration for the listing service
type ListingServiceConfig struct {
	EnableDebugLogging bool
}

// ListingService aggregates dealer listings from MarketCheck with member listings
// and caches single-listing lookups by composite id
type ListingService struct {
	cache        domain.ListingCache
	client       domain.MarketCheckClient
	internal     domain.InternalListingRepository
	preprocessor *QueryPreprocessor
	recorder     MetricsRecorder
	logger       zerolog.Logger
	lookups      singleflight.Group
}

// NewListingService creates a new listing service with dependencies.
// internal and recorder may be nil.
func NewListingService(
	cache domain.ListingCache,
	client domain.MarketCheckClient,
	internal domain.InternalListingRepository,
	recorder MetricsRecorder,
	logger zerolog.Logger,
	config ListingServiceConfig,
) *ListingService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	logger = logger.With().Str("component", "listing_service").Logger()

	return &ListingService{
		cache:        cache,
		client:       client,
		internal:     internal,
		preprocessor: NewQueryPreprocessor(logger, config.EnableDebugLogging),
		recorder:     recorder,
		logger:       logger,
	}
}

// Search runs an upstream search and normalizes every record in upstream order.
// Failures yield an empty list.
func (s *ListingService) Search(ctx context.Context, query domain.SearchQuery) []domain.Listing {
	listings, err := s.search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("search", query.Text).Msg("marketcheck search failed, returning no results")
		return []domain.Listing{}
	}
	return listings
}

func (s *ListingService) search(ctx context.Context, query domain.SearchQuery) ([]domain.Listing, error) {
	query.Text = s.preprocessor.PreprocessQuery(query.Text)

	start := time.Now()
	resp, err := s.client.SearchActive(ctx, query)
	s.recorder.ObserveUpstream(OperationSearch, outcomeOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return marketcheck.MapSearchResponse(resp), nil
}

// Lookup returns the listing for a composite id, from cache when fresh.
// Any miss or failure yields nil and nothing is cached.
func (s *ListingService) Lookup(ctx context.Context, id string) *domain.Listing {
	listing, err := s.lookup(ctx, id)
	if err != nil {
		event := s.logger.Warn()
		if errors.Is(err, domain.ErrListingNotFound) || errors.Is(err, domain.ErrInvalidListingID) {
			event = s.logger.Debug()
		}
		event.Err(err).Str("id", id).Msg("listing lookup returned nothing")
		return nil
	}
	return listing
}

func (s *ListingService) lookup(ctx context.Context, id string) (*domain.Listing, error) {
	entry, err := s.cache.Get(ctx, id)
	switch {
	case err == nil:
		s.recorder.ObserveCache(true)
		return entry.Listing, nil
	case errors.Is(err, domain.ErrCacheMiss):
		s.recorder.ObserveCache(false)
	default:
		s.recorder.ObserveCache(false)
		s.logger.Warn().Err(err).Str("id", id).Msg("cache read failed, treating as miss")
	}

	vin, ok := marketcheck.VINFromID(id)
	if !ok {
		return nil, domain.ErrInvalidListingID
	}

	// One upstream call per id at a time; it outlives any single caller's cancellation
	detached := context.WithoutCancel(ctx)
	v, err, _ := s.lookups.Do(id, func() (interface{}, error) {
		return s.fetchByVIN(detached, id, vin)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Listing), nil
}

func (s *ListingService) fetchByVIN(ctx context.Context, id, vin string) (*domain.Listing, error) {
	start := time.Now()
	raw, err := s.client.SearchByVIN(ctx, vin)
	s.recorder.ObserveUpstream(OperationVINLookup, outcomeOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	listing := marketcheck.MapToListing(raw)
	if err := s.cache.Set(ctx, id, listing); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("failed to cache listing")
	}
	return listing, nil
}

// AllListings returns active member listings followed by dealer search results.
// A failing source contributes nothing.
func (s *ListingService) AllListings(ctx context.Context, query domain.SearchQuery) []domain.Listing {
	var internal, external []domain.Listing

	var g errgroup.Group
	if s.internal != nil {
		g.Go(func() error {
			listings, err := s.internal.ListActive(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to load internal listings")
				return nil
			}
			internal = listings
			return nil
		})
	}
	g.Go(func() error {
		external = s.Search(ctx, query)
		return nil
	})
	_ = g.Wait()

	out := make([]domain.Listing, 0, len(internal)+len(external))
	out = append(out, internal...)
	out = append(out, external...)
	return out
}

// GetListing resolves a listing id. Composite ids go to the dealer network,
// UUIDs to the internal store.
func (s *ListingService) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if marketcheck.IsCompositeID(id) {
		if listing := s.Lookup(ctx, id); listing != nil {
			return listing, nil
		}
		return nil, domain.ErrListingNotFound
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidListingID
	}
	if s.internal == nil {
		return nil, domain.ErrInternalListingsUnavailable
	}
	return s.internal.GetByID(ctx, id)
}

// CheckUpstream probes MarketCheck and returns the number of matching records it reports
func (s *ListingService) CheckUpstream(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.client.Ping(ctx)
	s.recorder.ObserveUpstream(OperationPing, outcomeOf(err), time.Since(start))
	return n, err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrListingNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeFailure
	}
}
