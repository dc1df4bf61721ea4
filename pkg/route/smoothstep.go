package route

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/schemagraph/pkg/graph"
)

// Side is the node side an edge attaches to.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// direction returns the unit vector pointing away from the node on side s.
func (s Side) direction() (graph.Position, bool) {
	switch s {
	case SideLeft:
		return graph.Position{X: -1}, true
	case SideRight:
		return graph.Position{X: 1}, true
	case SideTop:
		return graph.Position{Y: -1}, true
	case SideBottom:
		return graph.Position{Y: 1}, true
	}
	return graph.Position{}, false
}

// horizontal reports whether edges leave s along the x axis.
func (s Side) horizontal() bool { return s == SideLeft || s == SideRight }

// Path is a routed edge.
type Path struct {
	// Points are the path vertices from source to target, including the
	// gap points just outside each handle.
	Points []graph.Position `json:"points"`

	// D is SVG path data with rounded corners.
	D string `json:"d"`

	// Label is the default label anchor.
	Label graph.Position `json:"label"`
}

// SmoothStep routes an orthogonal path from src to tgt. The path leaves each
// handle perpendicular to its side for gap units and rounds every corner
// with radius. If either side is unknown the path is a straight segment
// with the label at its midpoint.
func SmoothStep(src graph.Position, srcSide Side, tgt graph.Position, tgtSide Side, radius, gap float64) Path {
	srcDir, okS := srcSide.direction()
	tgtDir, okT := tgtSide.direction()
	if !okS || !okT {
		return straight(src, tgt)
	}

	points, label := stepPoints(src, srcSide, srcDir, tgt, tgtSide, tgtDir, gap)

	var d strings.Builder
	for i, p := range points {
		switch {
		case i == 0:
			d.WriteString("M" + num(p.X) + " " + num(p.Y))
		case i == len(points)-1:
			d.WriteString("L" + num(p.X) + " " + num(p.Y))
		default:
			d.WriteString(bend(points[i-1], p, points[i+1], radius))
		}
	}
	return Path{Points: points, D: d.String(), Label: label}
}

func straight(src, tgt graph.Position) Path {
	return Path{
		Points: []graph.Position{src, tgt},
		D:      "M" + num(src.X) + " " + num(src.Y) + "L" + num(tgt.X) + " " + num(tgt.Y),
		Label:  graph.Position{X: (src.X + tgt.X) / 2, Y: (src.Y + tgt.Y) / 2},
	}
}

func axis(p graph.Position, x bool) float64 {
	if x {
		return p.X
	}
	return p.Y
}

func setAxis(p *graph.Position, x bool, v float64) {
	if x {
		p.X = v
	} else {
		p.Y = v
	}
}

// stepPoints computes the vertices of a smooth-step path and its center.
func stepPoints(src graph.Position, srcSide Side, srcDir graph.Position, tgt graph.Position, tgtSide Side, tgtDir graph.Position, gap float64) ([]graph.Position, graph.Position) {
	srcGapped := graph.Position{X: src.X + srcDir.X*gap, Y: src.Y + srcDir.Y*gap}
	tgtGapped := graph.Position{X: tgt.X + tgtDir.X*gap, Y: tgt.Y + tgtDir.Y*gap}

	// Main direction of travel between the gapped handles.
	var dir graph.Position
	if srcSide.horizontal() {
		dir.X = sign(srcGapped.X < tgtGapped.X)
	} else {
		dir.Y = sign(srcGapped.Y < tgtGapped.Y)
	}
	onX := dir.X != 0
	curr := axis(dir, onX)

	var (
		points         []graph.Position
		center         graph.Position
		srcGapOff      graph.Position
		tgtGapOff      graph.Position
		defaultCenter  = edgeCenter(src, tgt)
		srcDirOnAxis   = axis(srcDir, onX)
		tgtDirOnAxis   = axis(tgtDir, onX)
		sourceToTarget = []graph.Position{{X: srcGapped.X, Y: tgtGapped.Y}}
		targetToSource = []graph.Position{{X: tgtGapped.X, Y: srcGapped.Y}}
	)

	if srcDirOnAxis*tgtDirOnAxis == -1 {
		// Opposite handles: split the path at the center line.
		center = defaultCenter
		vertical := []graph.Position{{X: center.X, Y: srcGapped.Y}, {X: center.X, Y: tgtGapped.Y}}
		horizontal := []graph.Position{{X: srcGapped.X, Y: center.Y}, {X: tgtGapped.X, Y: center.Y}}
		if srcDirOnAxis == curr {
			points = pick(onX, vertical, horizontal)
		} else {
			points = pick(onX, horizontal, vertical)
		}
	} else {
		// Same or perpendicular handles: a single corner.
		if onX {
			points = pick(srcDir.X == curr, targetToSource, sourceToTarget)
		} else {
			points = pick(srcDir.Y == curr, sourceToTarget, targetToSource)
		}

		if srcSide == tgtSide {
			diff := math.Abs(axis(src, onX) - axis(tgt, onX))
			if diff <= gap {
				off := math.Min(gap-1, gap-diff)
				if srcDirOnAxis == curr {
					setAxis(&srcGapOff, onX, away(axis(srcGapped, onX) > axis(src, onX))*off)
				} else {
					setAxis(&tgtGapOff, onX, away(axis(tgtGapped, onX) > axis(tgt, onX))*off)
				}
			}
		} else {
			opp := !onX
			sameDir := srcDirOnAxis == axis(tgtDir, opp)
			gt := axis(srcGapped, opp) > axis(tgtGapped, opp)
			lt := axis(srcGapped, opp) < axis(tgtGapped, opp)
			flip := (srcDirOnAxis == 1 && ((!sameDir && gt) || (sameDir && lt))) ||
				(srcDirOnAxis != 1 && ((!sameDir && lt) || (sameDir && gt)))
			if flip {
				points = pick(onX, sourceToTarget, targetToSource)
			}
		}

		srcPoint := graph.Position{X: srcGapped.X + srcGapOff.X, Y: srcGapped.Y + srcGapOff.Y}
		tgtPoint := graph.Position{X: tgtGapped.X + tgtGapOff.X, Y: tgtGapped.Y + tgtGapOff.Y}
		maxX := math.Max(math.Abs(srcPoint.X-points[0].X), math.Abs(tgtPoint.X-points[0].X))
		maxY := math.Max(math.Abs(srcPoint.Y-points[0].Y), math.Abs(tgtPoint.Y-points[0].Y))
		if maxX >= maxY {
			center = graph.Position{X: (srcPoint.X + tgtPoint.X) / 2, Y: points[0].Y}
		} else {
			center = graph.Position{X: points[0].X, Y: (srcPoint.Y + tgtPoint.Y) / 2}
		}
	}

	path := make([]graph.Position, 0, len(points)+4)
	path = append(path, src, graph.Position{X: srcGapped.X + srcGapOff.X, Y: srcGapped.Y + srcGapOff.Y})
	path = append(path, points...)
	path = append(path, graph.Position{X: tgtGapped.X + tgtGapOff.X, Y: tgtGapped.Y + tgtGapOff.Y}, tgt)
	return path, center
}

func edgeCenter(src, tgt graph.Position) graph.Position {
	return graph.Position{X: (src.X + tgt.X) / 2, Y: (src.Y + tgt.Y) / 2}
}

func pick(cond bool, a, b []graph.Position) []graph.Position {
	if cond {
		return a
	}
	return b
}

func sign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

func away(greater bool) float64 { return -sign(greater) }

// bend renders the corner at b between segments a-b and b-c as a quadratic
// curve of at most size, shrunk to fit half of either segment.
func bend(a, b, c graph.Position, size float64) string {
	r := math.Min(math.Min(dist(a, b)/2, dist(b, c)/2), size)
	x, y := b.X, b.Y

	if (a.X == x && x == c.X) || (a.Y == y && y == c.Y) {
		return "L" + num(x) + " " + num(y)
	}
	if a.Y == y {
		xDir := sign(a.X >= c.X)
		yDir := sign(a.Y < c.Y)
		return "L " + num(x+r*xDir) + "," + num(y) + "Q " + num(x) + "," + num(y) + " " + num(x) + "," + num(y+r*yDir)
	}
	xDir := sign(a.X < c.X)
	yDir := sign(a.Y >= c.Y)
	return "L " + num(x) + "," + num(y+r*yDir) + "Q " + num(x) + "," + num(y) + " " + num(x+r*xDir) + "," + num(y)
}

func dist(a, b graph.Position) float64 {
	return math.Sqrt((b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
