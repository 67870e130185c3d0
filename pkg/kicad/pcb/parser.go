// Package pcb parses KiCad board files (.kicad_pcb) into the subset of the
// board model needed for via stitching: nets, pads, tracks, vias, zones,
// and the board outline.
package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/copperline/viastitch/pkg/kicad/sexp"
)

// MinSupportedVersion is the oldest accepted file format (KiCad 6.0).
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad board file.
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader.
func Parse(r io.Reader) (*Board, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := nodes[0]
	if root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got %q", root.Name())
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	board := &Board{
		Version:   version,
		Generator: generator,
	}

	board.Nets, err = parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	netMap := NewNetMap(board.Nets)

	board.Tracks, err = parseTracks(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracks: %w", err)
	}

	board.Vias, err = parseVias(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vias: %w", err)
	}

	board.Footprints, err = parseFootprints(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprints: %w", err)
	}

	board.Zones, err = parseZones(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zones: %w", err)
	}

	board.Edge = parseEdgeCuts(root)

	return board, nil
}

// parseHeader extracts version and generator information.
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root *sexp.Node) (version int, generator string, err error) {
	versionNode, found := root.Find("version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := versionNode.Int(1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if hostNode, found := root.Find("host"); found {
		// Older format: (host pcbnew "(6.0.0)")
		if toolName, err := hostNode.Str(1); err == nil {
			gen = toolName
		}
	} else if genNode, found := root.Find("generator"); found {
		// Newer format: (generator "pcbnew")
		if generatorName, err := genNode.Str(1); err == nil {
			gen = generatorName
		}
	}

	return ver, gen, nil
}

// parseNets extracts net definitions.
// Expected format: (net 0 "") (net 1 "GND") ...
func parseNets(root *sexp.Node) ([]Net, error) {
	netNodes := root.FindAll("net")
	nets := make([]Net, 0, len(netNodes))

	for _, netNode := range netNodes {
		number, err := netNode.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}

		// Name is optional (net 0 usually has an empty name)
		name, _ := netNode.Str(2)

		nets = append(nets, Net{Number: number, Name: name})
	}

	return nets, nil
}

// parseTracks extracts all (segment ...) nodes.
func parseTracks(root *sexp.Node, netMap *NetMap) ([]Track, error) {
	segmentNodes := root.FindAll("segment")
	tracks := make([]Track, 0, len(segmentNodes))

	for _, node := range segmentNodes {
		track, err := parseSegment(node, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment: %w", err)
		}
		tracks = append(tracks, *track)
	}

	return tracks, nil
}

// parseSegment extracts a track segment.
// Expected format: (segment (start x y) (end x y) (width w) (layer "F.Cu") (net n))
func parseSegment(node *sexp.Node, netMap *NetMap) (*Track, error) {
	track := &Track{
		Width: 0.15, // KiCad default track width
	}

	startNode, found := node.Find("start")
	if !found {
		return nil, fmt.Errorf("missing required 'start' position")
	}
	start, err := parseXY(startNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start position: %w", err)
	}
	track.Start = start

	endNode, found := node.Find("end")
	if !found {
		return nil, fmt.Errorf("missing required 'end' position")
	}
	end, err := parseXY(endNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end position: %w", err)
	}
	track.End = end

	if widthNode, found := node.Find("width"); found {
		width, err := widthNode.Float(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
		track.Width = width
	}

	layerNode, found := node.Find("layer")
	if !found {
		return nil, fmt.Errorf("missing required 'layer' field")
	}
	layer, err := layerNode.Str(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layer: %w", err)
	}
	track.Layer = layer

	track.Net = parseNetRef(node, netMap)
	track.Locked = node.Has("locked")

	return track, nil
}

// parseVias extracts all (via ...) nodes.
func parseVias(root *sexp.Node, netMap *NetMap) ([]Via, error) {
	viaNodes := root.FindAll("via")
	vias := make([]Via, 0, len(viaNodes))

	for _, node := range viaNodes {
		via, err := parseVia(node, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse via: %w", err)
		}
		vias = append(vias, *via)
	}

	return vias, nil
}

// parseVia extracts a via definition.
// Expected format: (via (at x y) (size d) (drill d) (layers "F.Cu" "B.Cu") (net n))
func parseVia(node *sexp.Node, netMap *NetMap) (*Via, error) {
	via := &Via{}

	atNode, found := node.Find("at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := parseXY(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	via.Position = pos

	sizeNode, found := node.Find("size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	size, err := sizeNode.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse size: %w", err)
	}
	via.Size = size

	drillNode, found := node.Find("drill")
	if !found {
		return nil, fmt.Errorf("missing required 'drill' field")
	}
	drill, err := drillNode.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drill: %w", err)
	}
	via.Drill = drill

	if layersNode, found := node.Find("layers"); found {
		via.Layers = parseLayerList(layersNode)
	}

	via.Net = parseNetRef(node, netMap)
	via.Locked = node.Has("locked")

	return via, nil
}

// parseXY extracts X,Y coordinates from a (keyword X Y [angle]) node.
func parseXY(node *sexp.Node) (Position, error) {
	x, err := node.Float(1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err := node.Float(2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}
	return Position{X: x, Y: y}, nil
}

// parseNetRef resolves an optional (net n) child to a net from the map.
func parseNetRef(node *sexp.Node, netMap *NetMap) *Net {
	netNode, found := node.Find("net")
	if !found || netMap == nil {
		return nil
	}
	netNum, err := netNode.Int(1)
	if err != nil {
		return nil
	}
	if net, ok := netMap.GetByNumber(netNum); ok {
		return net
	}
	return nil
}

// parseLayerList extracts layer names from a (layers "F.Cu" "B.Cu") node.
func parseLayerList(node *sexp.Node) []string {
	var layers []string
	for i := 1; i < len(node.List); i++ {
		if name, err := node.Str(i); err == nil && name != "" {
			layers = append(layers, name)
		}
	}
	return layers
}

// parseEdgeCuts collects board outline graphics from the Edge.Cuts layer.
// A missing or partial outline is not an error: consumers fall back to
// bounding-box checks.
func parseEdgeCuts(root *sexp.Node) EdgeCuts {
	var edge EdgeCuts

	for _, node := range root.FindAll("gr_line") {
		if !onEdgeCuts(node) {
			continue
		}
		startNode, ok1 := node.Find("start")
		endNode, ok2 := node.Find("end")
		if !ok1 || !ok2 {
			continue
		}
		start, err1 := parseXY(startNode)
		end, err2 := parseXY(endNode)
		if err1 != nil || err2 != nil {
			continue
		}
		edge.Lines = append(edge.Lines, Line{Start: start, End: end})
	}

	for _, node := range root.FindAll("gr_rect") {
		if !onEdgeCuts(node) {
			continue
		}
		startNode, ok1 := node.Find("start")
		endNode, ok2 := node.Find("end")
		if !ok1 || !ok2 {
			continue
		}
		start, err1 := parseXY(startNode)
		end, err2 := parseXY(endNode)
		if err1 != nil || err2 != nil {
			continue
		}
		edge.Rects = append(edge.Rects, Rect{Start: start, End: end})
	}

	for _, node := range root.FindAll("gr_poly") {
		if !onEdgeCuts(node) {
			continue
		}
		ptsNode, found := node.Find("pts")
		if !found {
			continue
		}
		points := parsePoints(ptsNode)
		if len(points) >= 3 {
			edge.Polys = append(edge.Polys, points)
		}
	}

	return edge
}

func onEdgeCuts(node *sexp.Node) bool {
	layerNode, found := node.Find("layer")
	if !found {
		return false
	}
	layer, err := layerNode.Str(1)
	return err == nil && layer == "Edge.Cuts"
}

// parsePoints extracts xy coordinate pairs from a (pts (xy ..) (xy ..)) node.
func parsePoints(ptsNode *sexp.Node) []Position {
	var points []Position
	for _, item := range ptsNode.FindAll("xy") {
		x, errX := item.Float(1)
		y, errY := item.Float(2)
		if errX == nil && errY == nil {
			points = append(points, Position{X: x, Y: y})
		}
	}
	return points
}
