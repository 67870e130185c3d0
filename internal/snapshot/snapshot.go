// Package snapshot converts a parsed KiCad board into the placement
// engine's geometric snapshot. All unit conversion from file millimeters to
// engine nanometers happens here and nowhere else.
package snapshot

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/copperline/viastitch/pkg/kicad/pcb"
	"github.com/copperline/viastitch/pkg/stitch"
)

// Options selects which board geometry feeds the snapshot.
type Options struct {
	// Net names the net whose zones become placement regions. Required;
	// stitching vias always belong to a specific net.
	Net string
	// Layer restricts placement regions and trace obstacles to one copper
	// layer. Empty means all layers.
	Layer string
}

// toPoint converts a board position to engine coordinates.
func toPoint(p pcb.Position) stitch.Point {
	return stitch.Point{X: stitch.FromMM(p.X), Y: stitch.FromMM(p.Y)}
}

func toPoints(ps []pcb.Position) []stitch.Point {
	out := make([]stitch.Point, len(ps))
	for i, p := range ps {
		out[i] = toPoint(p)
	}
	return out
}

// FromBoard captures the board state relevant to a stitching run. Zones on
// the target net become placement regions; rule-area zones become keepouts
// regardless of net. Degraded geometry (no board outline, empty zones) is
// logged and tolerated, never fatal. Only a missing target net is an error.
func FromBoard(b *pcb.Board, opts Options, log logr.Logger) (*stitch.BoardSnapshot, error) {
	net := b.GetNet(opts.Net)
	if net == nil {
		return nil, fmt.Errorf("net %q not found on board", opts.Net)
	}

	snap := &stitch.BoardSnapshot{}

	for i := range b.Zones {
		z := &b.Zones[i]
		pts := toPoints(z.Outline)

		if z.RuleArea {
			snap.Keepouts = append(snap.Keepouts, stitch.Keepout{
				Outline: stitch.NewPolygonOutline(pts),
			})
			continue
		}
		if z.Net == nil || z.Net.Number != net.Number {
			continue
		}
		if opts.Layer != "" && !z.OnLayer(opts.Layer) {
			continue
		}
		snap.Regions = append(snap.Regions, stitch.Region{
			Box:     stitch.BoundsOf(pts),
			Poly:    pts,
			Net:     z.Net.Number,
			NetName: z.Net.Name,
		})
	}
	if len(snap.Regions) == 0 {
		log.Info("no fillable zones for net, nothing to stitch",
			"net", opts.Net, "layer", opts.Layer)
	}

	for i := range b.Footprints {
		fp := &b.Footprints[i]
		for j := range fp.Pads {
			pad := &fp.Pads[j]
			radius := pad.Size.Width
			if pad.Size.Height > radius {
				radius = pad.Size.Height
			}
			stub := stitch.PadStub{
				Center: toPoint(fp.PadPosition(pad)),
				Radius: stitch.FromMM(radius / 2),
			}
			if pad.Net != nil {
				stub.Net = pad.Net.Number
			}
			snap.Pads = append(snap.Pads, stub)
		}
	}

	for i := range b.Tracks {
		t := &b.Tracks[i]
		if opts.Layer != "" && t.Layer != opts.Layer {
			continue
		}
		seg := stitch.TraceSegment{
			Start:     toPoint(t.Start),
			End:       toPoint(t.End),
			HalfWidth: stitch.FromMM(t.Width / 2),
		}
		if t.Net != nil {
			seg.Net = t.Net.Number
		}
		snap.Traces = append(snap.Traces, seg)
	}

	for i := range b.Vias {
		v := &b.Vias[i]
		stub := stitch.ViaStub{
			Pos:      toPoint(v.Position),
			Diameter: stitch.FromMM(v.Size),
			Drill:    stitch.FromMM(v.Drill),
		}
		if v.Net != nil {
			stub.Net = v.Net.Number
		}
		snap.Vias = append(snap.Vias, stub)
	}

	snap.Outline = boardOutline(&b.Edge, log)

	return snap, nil
}

// boardOutline derives the board edge from Edge.Cuts graphics. Preference
// order: a closed polygon, then a rectangle, then the bounding box of all
// edge lines. A board with no edge graphics gets no outline, which disables
// the off-board check rather than failing the run.
func boardOutline(edge *pcb.EdgeCuts, log logr.Logger) stitch.Outline {
	if len(edge.Polys) > 0 {
		return stitch.NewPolygonOutline(toPoints(edge.Polys[0]))
	}
	if len(edge.Rects) > 0 {
		r := edge.Rects[0]
		pts := []stitch.Point{toPoint(r.Start), toPoint(r.End)}
		return stitch.BoxOutline{Box: stitch.BoundsOf(pts)}
	}
	if len(edge.Lines) > 0 {
		var pts []stitch.Point
		for _, ln := range edge.Lines {
			pts = append(pts, toPoint(ln.Start), toPoint(ln.End))
		}
		return stitch.BoxOutline{Box: stitch.BoundsOf(pts)}
	}
	log.Info("board has no Edge.Cuts graphics, edge check disabled")
	return nil
}
