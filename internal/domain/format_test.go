package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilesDisplay(t *testing.T) {
	tests := []struct {
		miles int
		want  string
	}{
		{0, "New"},
		{-5, "New"},
		{7, "7 mi"},
		{1500, "1,500 mi"},
		{42000, "42,000 mi"},
		{123456, "123,456 mi"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MilesDisplay(tt.miles))
	}
}

func TestListingClone(t *testing.T) {
	avatar := "https://img.test/avatar.png"
	original := &Listing{
		ID:     "mc-VIN-1",
		Images: []string{"https://img.test/1.jpg"},
		Media:  Media{PhotoLinks: []string{"https://img.test/1.jpg"}},
		Seller: Seller{Name: "Dealer", Tribes: []Tribe{TribeEuro}, Avatar: &avatar},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Images[0] = "changed"
	clone.Media.PhotoLinks[0] = "changed"
	clone.Seller.Tribes[0] = TribeJDM
	*clone.Seller.Avatar = "changed"

	assert.Equal(t, "https://img.test/1.jpg", original.Images[0])
	assert.Equal(t, "https://img.test/1.jpg", original.Media.PhotoLinks[0])
	assert.Equal(t, TribeEuro, original.Seller.Tribes[0])
	assert.Equal(t, "https://img.test/avatar.png", avatar)
}

func TestListingClone_PreservesEmptySlices(t *testing.T) {
	clone := (&Listing{Images: []string{}}).Clone()

	assert.NotNil(t, clone.Images)
	assert.Empty(t, clone.Images)
	assert.Nil(t, clone.Media.PhotoLinks)
	assert.Nil(t, (*Listing)(nil).Clone())
}
