package signal

import (
	"math"

	"ecgdigitize/internal/core"
)

// point is a candidate trace location: x is the column, y the row.
type point struct {
	x, y int
}

// pathEntry is the dynamic-programming table's per-point record: the
// best cumulative score reaching this point, the predecessor it came
// from (nil at path starts), and the angle of that final hop.
type pathEntry struct {
	score float64
	prev  *point
	angle float64
}

// distanceWeight balances the Euclidean-distance and angular-continuity
// terms of the per-hop cost (spec.md §4.7).
const distanceWeight = 0.5

// optimalEndingWidth is how far back from the right edge candidate
// path endpoints are drawn from.
const optimalEndingWidth = 20

// maxLookBack bounds how far the adjacency search may expand leftward
// when a column run is empty. The reference implementation expands
// without limit; a cap keeps pathological blank-column runs from
// degrading to an O(width) scan per point.
const maxLookBack = 50

// ExtractSignal runs a Viterbi-style shortest-path search over a binary
// trace mask, picking one candidate point per column that minimizes a
// cost combining hop distance and angular continuity, then linearly
// interpolates across any columns with no candidate. The path ends at
// the lowest-cost candidate within the last optimalEndingWidth columns;
// columns to the right of that endpoint stay NaN. It returns false if
// the mask contains no foreground pixels at all.
func ExtractSignal(mask core.Image) (core.Signal, bool) {
	pointsByColumn := candidatePointsByColumn(mask)

	total := 0
	for _, col := range pointsByColumn {
		total += len(col)
	}
	if total == 0 {
		return nil, false
	}

	bestPath := make(map[point]pathEntry)

	for _, p := range pointsByColumn[0] {
		bestPath[p] = pathEntry{score: 0, prev: nil, angle: 0}
	}

	for column := 1; column < len(pointsByColumn); column++ {
		for _, p := range pointsByColumn[column] {
			adjacent := adjacentPoints(pointsByColumn, bestPath, column, 1)
			if len(adjacent) == 0 {
				bestPath[p] = pathEntry{score: 0, prev: nil, angle: 0}
				continue
			}

			var bestScore float64
			var bestCandidate point
			first := true
			for _, c := range adjacent {
				candidateCost := hopScore(p, c.point, c.angle) + c.score
				if first || candidateCost < bestScore {
					bestScore = candidateCost
					bestCandidate = c.point
					first = false
				}
			}

			best := bestCandidate
			bestPath[p] = pathEntry{
				score: bestScore,
				prev:  &best,
				angle: angleBetweenPoints(bestCandidate, p),
			}
		}
	}

	endCandidates := adjacentPoints(pointsByColumn, bestPath, len(pointsByColumn), optimalEndingWidth)
	if len(endCandidates) == 0 {
		return nil, false
	}

	var current point
	var bestTotal float64
	first := true
	for _, c := range endCandidates {
		if first || c.score < bestTotal {
			bestTotal = c.score
			current = c.point
			first = false
		}
	}

	path := []point{current}
	for {
		entry := bestPath[current]
		if entry.prev == nil {
			break
		}
		current = *entry.prev
		path = append(path, current)
	}

	return convertPointsToSignal(path, mask.Width()), true
}

// candidatePointsByColumn collects, for each column, the midpoint of
// every contiguous run of foreground pixels.
func candidatePointsByColumn(mask core.Image) [][]point {
	width := mask.Width()
	height := mask.Height()

	columns := make([][]point, width)
	for x := 0; x < width; x++ {
		var runs []point
		start := -1
		for y := 0; y < height; y++ {
			on := mask.Mat.GetUCharAt(y, x) > 0
			if on && start == -1 {
				start = y
			} else if !on && start != -1 {
				runs = append(runs, point{x: x, y: (start + y) / 2})
				start = -1
			}
		}
		if start != -1 {
			runs = append(runs, point{x: x, y: (start + height) / 2})
		}
		columns[x] = runs
	}
	return columns
}

type adjacentCandidate struct {
	score float64
	point point
	angle float64
}

// adjacentPoints gathers already-scored points within a look-back
// window to the left of startingColumn, expanding the window leftward
// (up to maxLookBack) when it is empty — the reference algorithm's
// behavior for sparse columns.
func adjacentPoints(pointsByColumn [][]point, bestPath map[point]pathEntry, startingColumn, lookBack int) []adjacentCandidate {
	right := startingColumn
	left := startingColumn - lookBack
	if left < 0 {
		left = 0
	}

	gather := func(lo, hi int) []adjacentCandidate {
		if lo < 0 {
			lo = 0
		}
		if hi > len(pointsByColumn) {
			hi = len(pointsByColumn)
		}
		var out []adjacentCandidate
		for _, col := range pointsByColumn[lo:hi] {
			for _, p := range col {
				entry, ok := bestPath[p]
				if !ok {
					continue
				}
				out = append(out, adjacentCandidate{score: entry.score, point: p, angle: entry.angle})
			}
		}
		return out
	}

	result := gather(left, right)
	for len(result) == 0 && left >= 0 && (startingColumn-left) < maxLookBack {
		left--
		if left < 0 {
			break
		}
		result = gather(left, right)
	}
	return result
}

func euclideanDistance(x, y float64) float64 {
	return math.Hypot(x, y)
}

func distanceBetweenPoints(a, b point) float64 {
	return euclideanDistance(float64(a.x-b.x), float64(a.y-b.y))
}

func angleFromOffsets(x, y float64) float64 {
	d := euclideanDistance(x, y)
	if d == 0 {
		return 0
	}
	return math.Asin(y/d) / math.Pi * 180
}

func angleBetweenPoints(from, to point) float64 {
	return angleFromOffsets(float64(to.x-from.x), float64(to.y-from.y))
}

func angleSimilarity(a, b float64) float64 {
	return (180 - math.Abs(b-a)) / 180
}

// hopScore costs a hop from candidate to current, blending normalized
// distance and angular continuity with the candidate's incoming angle.
func hopScore(current, candidate point, candidateAngle float64) float64 {
	distanceValue := distanceBetweenPoints(current, candidate)
	if distanceValue == 0 {
		return 0
	}
	currentAngle := angleBetweenPoints(candidate, current)
	angleValue := 1 - angleSimilarity(currentAngle, candidateAngle)
	return distanceValue*distanceWeight + angleValue*(1-distanceWeight)
}

// convertPointsToSignal walks a backtraced path — ordered from the
// rightmost point to the leftmost — filling the output with each
// point's row and linearly interpolating any columns skipped between
// consecutive path points.
func convertPointsToSignal(path []point, width int) core.Signal {
	out := core.NewSignal(width)

	first := path[0]
	out[first.x] = float64(first.y)
	prior := first

	for _, p := range path[1:] {
		if p.x+1 < width && math.IsNaN(out[p.x+1]) {
			for x := p.x + 1; x < prior.x; x++ {
				slope := float64(prior.y-p.y) / float64(prior.x-p.x)
				out[x] = slope*float64(x-prior.x) + float64(prior.y)
			}
		}
		out[p.x] = float64(p.y)
		prior = p
	}

	return out
}
