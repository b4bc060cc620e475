package marketcheck

import "strings"

// Composite ids have the shape "mc-<VIN>-<residual>". The VIN is always the
// second dash-delimited field; VINs never contain a dash.
const (
	compositePrefix = "mc-"

	NoVINPlaceholder = "NOVIN"
	NoIDPlaceholder  = "NOID"
)

// CompositeID builds the platform-facing id for a MarketCheck record. MarketCheck
// ids usually look like "<VIN>-<uuid>", in which case the VIN prefix is dropped
// from the residual so it is not repeated.
func CompositeID(vin, upstreamID string) string {
	if vin == "" {
		vin = NoVINPlaceholder
	}
	if upstreamID == "" {
		upstreamID = NoIDPlaceholder
	}

	residual := upstreamID
	if rest, ok := strings.CutPrefix(upstreamID, vin+"-"); ok {
		residual = rest
	}
	return compositePrefix + vin + "-" + residual
}

// VINFromID extracts the VIN segment of a composite id by position. It reports
// false when there is no usable VIN: fewer than two segments, an empty segment,
// or the no-VIN placeholder.
func VINFromID(id string) (string, bool) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) < 2 {
		return "", false
	}
	vin := parts[1]
	if vin == "" || vin == NoVINPlaceholder {
		return "", false
	}
	return vin, true
}

// IsCompositeID reports whether id refers to a dealer-network listing
func IsCompositeID(id string) bool {
	return strings.HasPrefix(id, compositePrefix)
}
