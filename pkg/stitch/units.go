package stitch

// The engine works in integer nanometers. Grid-cell arithmetic and spacing
// comparisons stay exact; only intermediate distance math goes through
// float64.
const (
	// Nm is one nanometer, the base unit.
	Nm int64 = 1
	// Um is one micrometer in nanometers.
	Um int64 = 1000
	// Mm is one millimeter in nanometers.
	Mm int64 = 1000000
)

// FromMM converts millimeters to integer nanometers, rounding to nearest.
func FromMM(mm float64) int64 {
	if mm < 0 {
		return int64(mm*float64(Mm) - 0.5)
	}
	return int64(mm*float64(Mm) + 0.5)
}

// ToMM converts integer nanometers to millimeters.
func ToMM(nm int64) float64 {
	return float64(nm) / float64(Mm)
}
