package unit

import "math"

// Scale constants for one logical inch.
const (
	HWPUnitsPerInch = 7200
	PixelsPerInch   = 96
	MMPerInch       = 25.4
)

// ToPixels converts a length in HWPUNIT to display pixels, rounding to
// the nearest integer.
func ToPixels(native int) int {
	return int(math.Round(float64(native) * PixelsPerInch / HWPUnitsPerInch))
}

// FromPixels converts a length in display pixels to HWPUNIT, rounding to
// the nearest integer.
func FromPixels(px int) int {
	return int(math.Round(float64(px) * HWPUnitsPerInch / PixelsPerInch))
}

// ToMillimeters converts a length in HWPUNIT to millimeters.
func ToMillimeters(native int) float64 {
	return float64(native) * MMPerInch / HWPUnitsPerInch
}

// FromMillimeters converts a length in millimeters to HWPUNIT, rounding
// to the nearest integer.
func FromMillimeters(mm float64) int {
	return int(math.Round(mm * HWPUnitsPerInch / MMPerInch))
}

// ToPoints converts a length in HWPUNIT to typographic points (1/72 inch).
func ToPoints(native int) float64 {
	return float64(native) * 72 / HWPUnitsPerInch
}
