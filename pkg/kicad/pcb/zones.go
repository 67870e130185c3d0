package pcb

import (
	"fmt"

	"github.com/copperline/viastitch/pkg/kicad/sexp"
)

// parseZones extracts all (zone ...) nodes. Rule areas (keepouts) are
// reported as zones with RuleArea set so that consumers can exclude them
// from filling and treat them as forbidden regions.
func parseZones(root *sexp.Node, netMap *NetMap) ([]Zone, error) {
	zoneNodes := root.FindAll("zone")
	zones := make([]Zone, 0, len(zoneNodes))

	for i, node := range zoneNodes {
		zone, err := parseZone(node, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone %d: %w", i, err)
		}
		zones = append(zones, *zone)
	}

	return zones, nil
}

// parseZone extracts one zone definition.
// Expected format:
//
//	(zone (net 1) (net_name "GND") (layer "F.Cu")
//	  [(keepout (tracks not_allowed) (vias not_allowed))]
//	  (polygon (pts (xy ..) (xy ..) ...)))
func parseZone(node *sexp.Node, netMap *NetMap) (*Zone, error) {
	zone := &Zone{}

	if netNode, found := node.Find("net"); found {
		if netNum, err := netNode.Int(1); err == nil && netMap != nil {
			if net, ok := netMap.GetByNumber(netNum); ok {
				zone.Net = net
			}
		}
	}

	// Single layer or layer list; a multi-layer zone keeps all its layers
	if layerNode, found := node.Find("layer"); found {
		if layer, err := layerNode.Str(1); err == nil {
			zone.Layers = []string{layer}
		}
	}
	if layersNode, found := node.Find("layers"); found {
		zone.Layers = parseLayerList(layersNode)
	}

	// A (keepout ...) child marks the zone as a rule area
	if _, found := node.Find("keepout"); found {
		zone.RuleArea = true
	}

	polyNode, found := node.Find("polygon")
	if !found {
		return nil, fmt.Errorf("missing required 'polygon' outline")
	}
	ptsNode, found := polyNode.Find("pts")
	if !found {
		return nil, fmt.Errorf("missing 'pts' in zone polygon")
	}
	zone.Outline = parsePoints(ptsNode)
	if len(zone.Outline) < 3 {
		return nil, fmt.Errorf("zone polygon has %d points, need at least 3", len(zone.Outline))
	}

	return zone, nil
}

// OnLayer reports whether the zone covers the given copper layer.
func (z *Zone) OnLayer(layer string) bool {
	for _, l := range z.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// BoundingBox returns the zone outline's bounding box.
func (z *Zone) BoundingBox() BoundingBox {
	bb := NewBoundingBox()
	for _, p := range z.Outline {
		bb.Expand(p)
	}
	return bb
}
