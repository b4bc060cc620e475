package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cartribe/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/hlog"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// MarketService is the listing aggregator used by the handlers
type MarketService interface {
	Search(ctx context.Context, query domain.SearchQuery) []domain.Listing
	AllListings(ctx context.Context, query domain.SearchQuery) []domain.Listing
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	CheckUpstream(ctx context.Context) (int, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	market MarketService
}

// NewHandler creates a new HTTP handler
func NewHandler(market MarketService) *Handler {
	return &Handler{market: market}
}

const (
	maxZipLength   = 10
	maxRadiusMiles = 500
)

type searchParams struct {
	Search string `form:"search" binding:"max=200"`
	Zip    string `form:"zip" binding:"omitempty,max=10"`
	Radius int    `form:"radius" binding:"omitempty,min=1,max=500"`
}

func (p searchParams) query() domain.SearchQuery {
	return domain.SearchQuery{Text: p.Search, PostalCode: p.Zip, RadiusMiles: p.Radius}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartribe-backend",
		"version": Version,
	})
}

// AllListings returns member listings followed by dealer listings.
// Invalid parameters never fail the request: the upstream defaults apply instead.
func (h *Handler) AllListings(c *gin.Context) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		hlog.FromRequest(c.Request).Debug().Err(err).Msg("ignoring invalid search parameters")
		params = lenientSearch(c)
	}
	c.JSON(http.StatusOK, h.market.AllListings(c.Request.Context(), params.query()))
}

// SearchListings returns normalized dealer listings only
func (h *Handler) SearchListings(c *gin.Context) {
	params, ok := bindSearch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.market.Search(c.Request.Context(), params.query()))
}

// GetListing returns a single listing by composite id or UUID
func (h *Handler) GetListing(c *gin.Context) {
	id := c.Param("id")

	listing, err := h.market.GetListing(c.Request.Context(), id)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			hlog.FromRequest(c.Request).Error().Err(err).Str("id", id).Msg("listing fetch failed")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// TestUpstream probes the MarketCheck API with a minimal search
func (h *Handler) TestUpstream(c *gin.Context) {
	n, err := h.market.CheckUpstream(c.Request.Context())
	if err != nil {
		hlog.FromRequest(c.Request).Warn().Err(err).Msg("marketcheck probe failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "MarketCheck API unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "MarketCheck API reachable",
		"sampleListingCount": n,
	})
}

// lenientSearch keeps the valid parameters and drops the rest so the upstream defaults apply
func lenientSearch(c *gin.Context) searchParams {
	params := searchParams{Search: c.Query("search")}
	if zip := c.Query("zip"); len(zip) <= maxZipLength {
		params.Zip = zip
	}
	if radius, err := strconv.Atoi(c.Query("radius")); err == nil && radius >= 1 && radius <= maxRadiusMiles {
		params.Radius = radius
	}
	return params
}

func bindSearch(c *gin.Context) (searchParams, bool) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return params, false
	}
	return params, true
}

// errorStatus maps domain errors to an HTTP status and a client-safe message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, domain.ErrListingNotFound.Error()
	case errors.Is(err, domain.ErrInvalidListingID):
		return http.StatusBadRequest, domain.ErrInvalidListingID.Error()
	case errors.Is(err, domain.ErrInternalListingsUnavailable):
		return http.StatusServiceUnavailable, domain.ErrInternalListingsUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
