package calc

// Unit conversion constants.
const (
	ThermsPerCCF    = 1.037
	LitersPerGallon = 3.78541
	KmPerMile       = 1.609344
)

// CCFToTherms converts hundred-cubic-feet of natural gas to therms.
func CCFToTherms(ccf float64) float64 {
	return ccf * ThermsPerCCF
}

// GallonsToLiters converts US gallons to liters.
func GallonsToLiters(gallons float64) float64 {
	return gallons * LitersPerGallon
}

// MilesToKm converts statute miles to kilometers.
func MilesToKm(miles float64) float64 {
	return miles * KmPerMile
}
