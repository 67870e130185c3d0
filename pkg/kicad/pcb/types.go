package pcb

// Position is a 2D coordinate in millimeters, the native unit of
// .kicad_pcb files. Downstream consumers that need integer nanometers
// convert at their own boundary.
type Position struct {
	X float64
	Y float64
}

// Size represents pad dimensions in millimeters.
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox is an axis-aligned rectangle in millimeters.
type BoundingBox struct {
	Min Position
	Max Position
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// IsEmpty reports whether the bounding box has never been expanded.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand grows the bounding box to include pos.
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// Width returns the horizontal extent.
func (bb BoundingBox) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the vertical extent.
func (bb BoundingBox) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Net represents an electrical net.
type Net struct {
	Number int    // Net number (ordinal)
	Name   string // Net name (e.g., "GND", "+5V")
}

// NetMap provides lookup of nets by number or name.
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNetMap creates a NetMap from a slice of nets.
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{
		byNumber: make(map[int]*Net),
		byName:   make(map[string]*Net),
	}
	for i := range nets {
		net := &nets[i]
		nm.byNumber[net.Number] = net
		// Net 0 (unconnected) has an empty name
		if net.Name != "" {
			nm.byName[net.Name] = net
		}
	}
	return nm
}

// GetByName retrieves a net by name.
func (nm *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// GetByNumber retrieves a net by number.
func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}

// Footprint represents a component footprint.
type Footprint struct {
	Library   string
	Name      string
	Layer     string
	Position  Position
	Angle     float64 // rotation in degrees
	Reference string
	Value     string
	Pads      []Pad
}

// Pad represents a footprint pad. Position is relative to the footprint
// until transformed with Footprint.PadPosition.
type Pad struct {
	Number   string
	Type     string // thru_hole, smd, connect, np_thru_hole
	Shape    string // circle, rect, oval, roundrect, trapezoid, custom
	Position Position
	Angle    float64
	Size     Size
	Drill    float64 // 0 for SMD
	Layers   []string
	Net      *Net
}

// Track represents a copper track segment.
type Track struct {
	Start  Position
	End    Position
	Width  float64
	Layer  string
	Net    *Net
	Locked bool
}

// Via represents a plated through-hole via.
type Via struct {
	Position Position
	Size     float64 // diameter
	Drill    float64
	Layers   []string
	Net      *Net
	Locked   bool
}

// Zone represents a copper zone. RuleArea zones (KiCad keepouts) are never
// filled and forbid via placement.
type Zone struct {
	Net      *Net
	Layers   []string
	Outline  []Position
	RuleArea bool
}

// EdgeCuts holds board outline graphics from the Edge.Cuts layer.
type EdgeCuts struct {
	Lines []Line
	Rects []Rect
	Polys [][]Position
}

// Line is a straight graphic line.
type Line struct {
	Start Position
	End   Position
}

// Rect is a graphic rectangle given by two opposite corners.
type Rect struct {
	Start Position
	End   Position
}

// Board represents the parts of a KiCad PCB relevant to via stitching.
type Board struct {
	Version    int
	Generator  string
	Nets       []Net
	Footprints []Footprint
	Tracks     []Track
	Vias       []Via
	Zones      []Zone
	Edge       EdgeCuts
}

// GetNet returns a net by name, or nil if not found.
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// NetNames returns all net names on the board.
func (b *Board) NetNames() []string {
	names := make([]string, len(b.Nets))
	for i, net := range b.Nets {
		names[i] = net.Name
	}
	return names
}
