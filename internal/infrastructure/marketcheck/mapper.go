package marketcheck

import (
	"fmt"
	"math"

	"github.com/cartribe/backend/internal/domain"
)

// Defaults applied when MarketCheck omits a field
const (
	DefaultYear         = 2024
	DefaultMake         = "Unknown"
	DefaultModel        = "Vehicle"
	DefaultCity         = "Unknown"
	DefaultLocation     = "Location Unknown"
	DefaultDealerName   = "Verified Dealer"
	NotAvailable        = "N/A"
	PlaceholderImageURL = "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?auto=format&fit=crop&w=800&q=80"
)

// MapToListing converts a MarketCheck record to our domain Listing model.
// Every nested block of the record is optional.
func MapToListing(item *domain.MarketCheckListing) *domain.Listing {
	build := item.Build
	if build == nil {
		build = &domain.MarketCheckBuild{}
	}
	dealer := item.Dealer
	if dealer == nil {
		dealer = &domain.MarketCheckDealer{}
	}

	year := build.Year
	if year <= 0 {
		year = DefaultYear
	}
	vehicleMake := nonEmpty(build.Make, DefaultMake)
	model := nonEmpty(build.Model, DefaultModel)
	price := int(math.Round(item.Price))
	miles := int(math.Round(item.Miles))
	tag := domain.TribeForMake(build.Make)

	photos := []string{}
	if item.Media != nil && len(item.Media.PhotoLinks) > 0 {
		photos = append(photos, item.Media.PhotoLinks...)
	}
	imageURL := PlaceholderImageURL
	if len(photos) > 0 {
		imageURL = photos[0]
	}

	description := fmt.Sprintf("%s %s available now.", vehicleMake, model)
	if item.Extra != nil && item.Extra.Description != "" {
		description = item.Extra.Description
	}

	dealerName := nonEmpty(dealer.Name, DefaultDealerName)

	return &domain.Listing{
		ID:           CompositeID(item.VIN, item.ID),
		Year:         year,
		Make:         vehicleMake,
		Model:        model,
		Price:        price,
		MSRP:         price,
		CurrentBid:   price,
		Tag:          tag,
		Miles:        miles,
		MilesDisplay: domain.MilesDisplay(miles),
		City:         nonEmpty(dealer.City, DefaultCity),
		State:        dealer.State,
		Location:     location(dealer.City, dealer.State),
		Description:  description,
		Media:        domain.Media{PhotoLinks: photos},
		Images:       photos,
		ImageURL:     imageURL,
		Specs: domain.Specs{
			Engine:       nonEmpty(build.Engine, NotAvailable),
			Transmission: nonEmpty(build.Transmission, NotAvailable),
			Drivetrain:   build.Drivetrain,
			VIN:          item.VIN,
		},
		EngineDescription:       build.Engine,
		TransmissionDescription: build.Transmission,
		VIN:                     item.VIN,
		DealerName:              dealerName,
		Seller: domain.Seller{
			Name:   dealerName,
			Type:   domain.SellerTypeDealer,
			Tribes: []domain.Tribe{tag},
		},
		Origin: domain.OriginMarketplace,
		Source: domain.SourceMarketCheck,
	}
}

// MapSearchResponse maps every record in upstream order. The result is never nil.
func MapSearchResponse(resp *domain.MarketCheckSearchResponse) []domain.Listing {
	if resp == nil {
		return []domain.Listing{}
	}
	out := make([]domain.Listing, 0, len(resp.Listings))
	for i := range resp.Listings {
		out = append(out, *MapToListing(&resp.Listings[i]))
	}
	return out
}

func location(city, state string) string {
	switch {
	case city == "":
		return DefaultLocation
	case state == "":
		return city
	default:
		return city + ", " + state
	}
}

func nonEmpty(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
