package stitch

import (
	"fmt"

	"go.uber.org/multierr"
)

// Pattern selects the candidate generation strategy.
type Pattern int

const (
	// PatternGrid lays candidates on a rectangular lattice.
	PatternGrid Pattern = iota
	// PatternBoundary walks the region's bounding-box perimeter.
	PatternBoundary
	// PatternSpiral winds an Archimedean spiral out from the region center.
	PatternSpiral
)

func (p Pattern) String() string {
	switch p {
	case PatternGrid:
		return "grid"
	case PatternBoundary:
		return "boundary"
	case PatternSpiral:
		return "spiral"
	default:
		return fmt.Sprintf("pattern(%d)", int(p))
	}
}

// ParsePattern converts a pattern name to a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "grid":
		return PatternGrid, nil
	case "boundary":
		return PatternBoundary, nil
	case "spiral":
		return PatternSpiral, nil
	default:
		return 0, fmt.Errorf("unknown pattern %q (want grid, boundary, or spiral)", s)
	}
}

// Settings holds all placement parameters in integer nanometers.
type Settings struct {
	Diameter       int64 // via diameter
	Drill          int64 // drill diameter, must be smaller than Diameter
	HSpacing       int64 // horizontal candidate pitch
	VSpacing       int64 // vertical candidate pitch
	HOffset        int64 // horizontal lattice offset
	VOffset        int64 // vertical lattice offset
	EdgeClearance  int64 // inward margin from region and board edges
	PadClearance   int64 // minimum via-to-pad separation
	TraceClearance int64 // minimum via-to-trace separation
	ViaClearance   int64 // minimum via-to-via separation
	Pattern        Pattern
	Randomize      bool
	Seed           int64 // jitter seed, fixed for reproducible runs
}

// DefaultSettings returns the standard stitching parameters: 0.6/0.3 mm
// via, 1.27 mm pitch, 0.5 mm edge clearance, 0.2 mm obstacle clearances.
func DefaultSettings() Settings {
	return Settings{
		Diameter:       FromMM(0.6),
		Drill:          FromMM(0.3),
		HSpacing:       FromMM(1.27),
		VSpacing:       FromMM(1.27),
		HOffset:        0,
		VOffset:        0,
		EdgeClearance:  FromMM(0.5),
		PadClearance:   FromMM(0.2),
		TraceClearance: FromMM(0.2),
		ViaClearance:   FromMM(0.2),
		Pattern:        PatternGrid,
		Randomize:      false,
		Seed:           1,
	}
}

// Overrides selects the fields to change when merging onto a base
// Settings. Nil fields keep the base value.
type Overrides struct {
	Diameter       *int64
	Drill          *int64
	HSpacing       *int64
	VSpacing       *int64
	HOffset        *int64
	VOffset        *int64
	EdgeClearance  *int64
	PadClearance   *int64
	TraceClearance *int64
	ViaClearance   *int64
	Pattern        *Pattern
	Randomize      *bool
	Seed           *int64
}

// Merge applies overrides onto base and returns the result. Pure function;
// neither argument is modified.
func Merge(base Settings, o Overrides) Settings {
	s := base
	if o.Diameter != nil {
		s.Diameter = *o.Diameter
	}
	if o.Drill != nil {
		s.Drill = *o.Drill
	}
	if o.HSpacing != nil {
		s.HSpacing = *o.HSpacing
	}
	if o.VSpacing != nil {
		s.VSpacing = *o.VSpacing
	}
	if o.HOffset != nil {
		s.HOffset = *o.HOffset
	}
	if o.VOffset != nil {
		s.VOffset = *o.VOffset
	}
	if o.EdgeClearance != nil {
		s.EdgeClearance = *o.EdgeClearance
	}
	if o.PadClearance != nil {
		s.PadClearance = *o.PadClearance
	}
	if o.TraceClearance != nil {
		s.TraceClearance = *o.TraceClearance
	}
	if o.ViaClearance != nil {
		s.ViaClearance = *o.ViaClearance
	}
	if o.Pattern != nil {
		s.Pattern = *o.Pattern
	}
	if o.Randomize != nil {
		s.Randomize = *o.Randomize
	}
	if o.Seed != nil {
		s.Seed = *o.Seed
	}
	return s
}

// Validate reports every invalid field at once. Validation failures are
// caller errors; the pipeline refuses to start on them.
func (s Settings) Validate() error {
	var err error
	if s.Diameter <= 0 {
		err = multierr.Append(err, fmt.Errorf("via diameter must be positive, got %.4f mm", ToMM(s.Diameter)))
	}
	if s.Drill <= 0 {
		err = multierr.Append(err, fmt.Errorf("drill diameter must be positive, got %.4f mm", ToMM(s.Drill)))
	}
	if s.Drill > 0 && s.Diameter > 0 && s.Drill >= s.Diameter {
		err = multierr.Append(err, fmt.Errorf("drill diameter %.4f mm must be smaller than via diameter %.4f mm", ToMM(s.Drill), ToMM(s.Diameter)))
	}
	if s.HSpacing <= 0 {
		err = multierr.Append(err, fmt.Errorf("horizontal spacing must be positive, got %.4f mm", ToMM(s.HSpacing)))
	}
	if s.VSpacing <= 0 {
		err = multierr.Append(err, fmt.Errorf("vertical spacing must be positive, got %.4f mm", ToMM(s.VSpacing)))
	}
	if s.EdgeClearance < 0 {
		err = multierr.Append(err, fmt.Errorf("edge clearance must not be negative, got %.4f mm", ToMM(s.EdgeClearance)))
	}
	if s.PadClearance < 0 {
		err = multierr.Append(err, fmt.Errorf("pad clearance must not be negative, got %.4f mm", ToMM(s.PadClearance)))
	}
	if s.TraceClearance < 0 {
		err = multierr.Append(err, fmt.Errorf("trace clearance must not be negative, got %.4f mm", ToMM(s.TraceClearance)))
	}
	if s.ViaClearance < 0 {
		err = multierr.Append(err, fmt.Errorf("via clearance must not be negative, got %.4f mm", ToMM(s.ViaClearance)))
	}
	if s.Pattern != PatternGrid && s.Pattern != PatternBoundary && s.Pattern != PatternSpiral {
		err = multierr.Append(err, fmt.Errorf("invalid pattern %d", int(s.Pattern)))
	}
	return err
}

// Radius returns the via radius derived from the diameter.
func (s Settings) Radius() int64 { return s.Diameter / 2 }
