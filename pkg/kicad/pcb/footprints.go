package pcb

import (
	"fmt"
	"math"

	"github.com/copperline/viastitch/pkg/kicad/sexp"
)

// parseFootprints extracts all (footprint ...) nodes. KiCad 5-era files use
// (module ...) instead; both spellings are accepted.
func parseFootprints(root *sexp.Node, netMap *NetMap) ([]Footprint, error) {
	nodes := root.FindAll("footprint")
	nodes = append(nodes, root.FindAll("module")...)

	footprints := make([]Footprint, 0, len(nodes))
	for _, node := range nodes {
		fp, err := parseFootprint(node, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint: %w", err)
		}
		footprints = append(footprints, *fp)
	}

	return footprints, nil
}

// parseFootprint extracts one footprint with its pads.
// Expected format: (footprint "lib:name" (layer "F.Cu") (at x y [angle]) (pad ...) ...)
func parseFootprint(node *sexp.Node, netMap *NetMap) (*Footprint, error) {
	fp := &Footprint{}

	if name, err := node.Str(1); err == nil {
		fp.Library, fp.Name = splitLibraryName(name)
	}

	if layerNode, found := node.Find("layer"); found {
		if layer, err := layerNode.Str(1); err == nil {
			fp.Layer = layer
		}
	}

	atNode, found := node.Find("at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := parseXY(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	fp.Position = pos
	if angle, err := atNode.Float(3); err == nil {
		fp.Angle = angle
	}

	// Reference and value live in property nodes in KiCad 7+,
	// fp_text nodes in older files
	for _, prop := range node.FindAll("property") {
		key, err1 := prop.Str(1)
		val, err2 := prop.Str(2)
		if err1 != nil || err2 != nil {
			continue
		}
		switch key {
		case "Reference":
			fp.Reference = val
		case "Value":
			fp.Value = val
		}
	}
	for _, text := range node.FindAll("fp_text") {
		kind, err1 := text.Str(1)
		val, err2 := text.Str(2)
		if err1 != nil || err2 != nil {
			continue
		}
		switch kind {
		case "reference":
			fp.Reference = val
		case "value":
			fp.Value = val
		}
	}

	for _, padNode := range node.FindAll("pad") {
		pad, err := parsePad(padNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad: %w", err)
		}
		fp.Pads = append(fp.Pads, *pad)
	}

	return fp, nil
}

// parsePad extracts a pad definition.
// Expected format: (pad "1" thru_hole circle (at x y [angle]) (size w h) (layers ...) (net n "name"))
func parsePad(node *sexp.Node, netMap *NetMap) (*Pad, error) {
	pad := &Pad{}

	number, err := node.Str(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	padType, err := node.Str(2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	shape, err := node.Str(3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	atNode, found := node.Find("at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := parseXY(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pad.Position = pos
	if angle, err := atNode.Float(3); err == nil {
		pad.Angle = angle
	}

	sizeNode, found := node.Find("size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	width, err := sizeNode.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad width: %w", err)
	}
	height, err := sizeNode.Float(2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad height: %w", err)
	}
	pad.Size = Size{Width: width, Height: height}

	// Drill is optional; it can be a bare number or (drill (diameter d))
	if drillNode, found := node.Find("drill"); found {
		if drill, err := drillNode.Float(1); err == nil {
			pad.Drill = drill
		}
	}

	if layersNode, found := node.Find("layers"); found {
		pad.Layers = parseLayerList(layersNode)
	}

	pad.Net = parseNetRef(node, netMap)

	return pad, nil
}

// PadPosition returns the absolute board position of a pad, applying the
// footprint's rotation and translation.
func (fp *Footprint) PadPosition(pad *Pad) Position {
	x, y := pad.Position.X, pad.Position.Y

	if fp.Angle != 0 {
		angleRad := -fp.Angle * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return Position{X: x + fp.Position.X, Y: y + fp.Position.Y}
}

// splitLibraryName splits "Resistor_SMD:R_0603" into library and name.
func splitLibraryName(full string) (library, name string) {
	for i := 0; i < len(full); i++ {
		if full[i] == ':' {
			return full[:i], full[i+1:]
		}
	}
	return "", full
}
