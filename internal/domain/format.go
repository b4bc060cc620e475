package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var englishPrinter = message.NewPrinter(language.English)

// MilesDisplay renders "12,345 mi", or "New" for a zero odometer
func MilesDisplay(miles int) string {
	if miles <= 0 {
		return "New"
	}
	return englishPrinter.Sprintf("%d mi", miles)
}

// Clone returns a deep copy of the listing
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	out := *l
	out.Images = cloneSlice(l.Images)
	out.Media.PhotoLinks = cloneSlice(l.Media.PhotoLinks)
	out.Seller.Tribes = cloneSlice(l.Seller.Tribes)
	if l.Seller.Avatar != nil {
		avatar := *l.Seller.Avatar
		out.Seller.Avatar = &avatar
	}
	return &out
}

// cloneSlice keeps nil as nil and empty as empty
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
