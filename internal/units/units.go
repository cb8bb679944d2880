// Package units provides shared constants and validation for velocity units.
package units

// Unit constants
const (
	PXS = "pxs" // pixels per second (native)
	CMS = "cms" // centimetres per second (requires arena scale)
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{PXS, CMS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "pxs, cms"
}

// ConvertVelocity converts a velocity from pixels per second to the target
// units. pixelsPerCm is the arena calibration scale; when it is zero or
// negative the value is returned unconverted because no scale is known.
func ConvertVelocity(velocityPxS float64, pixelsPerCm float64, targetUnits string) float64 {
	switch targetUnits {
	case CMS:
		if pixelsPerCm <= 0 {
			return velocityPxS
		}
		return velocityPxS / pixelsPerCm
	case PXS:
		return velocityPxS
	default:
		return velocityPxS
	}
}

// NormalizeDeg wraps an angle in degrees to the (-180, 180] range.
func NormalizeDeg(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
