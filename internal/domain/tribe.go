package domain

import "strings"

// Tribe is the coarse community category a vehicle belongs to
type Tribe string

const (
	TribeEuro    Tribe = "Euro"
	TribeJDM     Tribe = "JDM"
	TribeMuscle  Tribe = "Muscle"
	TribeClassic Tribe = "Classic"
)

var tribeMakes = map[string]Tribe{
	// European
	"BMW": TribeEuro, "MERCEDES-BENZ": TribeEuro, "AUDI": TribeEuro, "VOLKSWAGEN": TribeEuro,
	"PORSCHE": TribeEuro, "VOLVO": TribeEuro, "FERRARI": TribeEuro, "LAMBORGHINI": TribeEuro,
	// Japanese
	"NISSAN": TribeJDM, "TOYOTA": TribeJDM, "HONDA": TribeJDM, "SUBARU": TribeJDM,
	"MAZDA": TribeJDM, "MITSUBISHI": TribeJDM, "LEXUS": TribeJDM, "ACURA": TribeJDM,
	// American muscle
	"FORD": TribeMuscle, "CHEVROLET": TribeMuscle, "DODGE": TribeMuscle,
	"PONTIAC": TribeMuscle, "CHRYSLER": TribeMuscle,
}

// TribeForMake classifies a make case-insensitively. Unknown and empty makes are Classic.
func TribeForMake(vehicleMake string) Tribe {
	if t, ok := tribeMakes[strings.ToUpper(strings.TrimSpace(vehicleMake))]; ok {
		return t
	}
	return TribeClassic
}
