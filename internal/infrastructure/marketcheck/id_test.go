package marketcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositeID(t *testing.T) {
	tests := []struct {
		name       string
		vin        string
		upstreamID string
		want       string
	}{
		{
			name:       "strips VIN prefix from upstream id",
			vin:        "1FA6P8CF5L5123456",
			upstreamID: "1FA6P8CF5L5123456-8f1c-44aa",
			want:       "mc-1FA6P8CF5L5123456-8f1c-44aa",
		},
		{
			name:       "keeps upstream id that does not start with VIN",
			vin:        "1FA6P8CF5L5123456",
			upstreamID: "8f1c-44aa",
			want:       "mc-1FA6P8CF5L5123456-8f1c-44aa",
		},
		{
			name:       "VIN prefix without separator is kept",
			vin:        "1FA6P8CF5L5123456",
			upstreamID: "1FA6P8CF5L5123456abc",
			want:       "mc-1FA6P8CF5L5123456-1FA6P8CF5L5123456abc",
		},
		{
			name:       "missing VIN",
			vin:        "",
			upstreamID: "abc",
			want:       "mc-NOVIN-abc",
		},
		{
			name:       "missing upstream id",
			vin:        "JN1AZ4EH7DM430000",
			upstreamID: "",
			want:       "mc-JN1AZ4EH7DM430000-NOID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeID(tt.vin, tt.upstreamID))
		})
	}
}

func TestVINFromID_RoundTrip(t *testing.T) {
	pairs := []struct{ vin, upstreamID string }{
		{"1FA6P8CF5L5123456", "1FA6P8CF5L5123456-8f1c-44aa-9e1d"},
		{"WBA3A5C51CF256651", "0b7e2d"},
		{"JH4", "JH4-x"},
		{"ABC", ""},
	}

	for _, p := range pairs {
		vin, ok := VINFromID(CompositeID(p.vin, p.upstreamID))
		assert.True(t, ok, "vin %s", p.vin)
		assert.Equal(t, p.vin, vin)
	}
}

func TestVINFromID_Unusable(t *testing.T) {
	tests := []string{
		"",
		"mc",
		"mcWBA3A5C51CF256651",
		"mc--abc",
		"mc-NOVIN-abc",
	}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			vin, ok := VINFromID(id)
			assert.False(t, ok)
			assert.Empty(t, vin)
		})
	}
}

func TestIsCompositeID(t *testing.T) {
	assert.True(t, IsCompositeID("mc-ABC-1"))
	assert.False(t, IsCompositeID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.False(t, IsCompositeID("mc"))
}
