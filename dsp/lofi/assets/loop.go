package assets

import (
	"math"
)

const (
	minLoopFrames = 1000
	zeroThreshold = 0.001
)

// FindLoopPoints picks a loop region [start, end) whose boundaries sit on
// quiet zero crossings of the channel average. The start is searched in the
// first tenth of the clip and the end in the last tenth. Clips shorter than
// minLoopFrames loop whole.
func FindLoopPoints(channels [][]float64) (start, end int) {
	if len(channels) == 0 {
		return 0, 0
	}
	n := len(channels[0])
	if n < minLoopFrames {
		return 0, n
	}

	search := n / 10
	start = nearestCrossing(channels, 0, 1, search)
	end = nearestCrossing(channels, n-2, -1, search) + 1
	return start, end
}

func mono(channels [][]float64, i int) float64 {
	var s float64
	for _, ch := range channels {
		s += ch[i]
	}
	return s / float64(len(channels))
}

// nearestCrossing walks up to span frames from from in direction dir and
// returns the first index i where frames i and i+1 straddle zero below the
// threshold. Without one it returns the quietest frame seen.
func nearestCrossing(channels [][]float64, from, dir, span int) int {
	n := len(channels[0])
	for k := 0; k < span; k++ {
		i := from + k*dir
		if i < 0 || i >= n-1 {
			break
		}
		a, b := mono(channels, i), mono(channels, i+1)
		if math.Abs(a) < zeroThreshold && math.Abs(b) < zeroThreshold && math.Signbit(a) != math.Signbit(b) {
			return i
		}
	}

	best, bestLevel := from, math.Inf(1)
	for k := 0; k < span; k++ {
		i := from + k*dir
		if i < 0 || i >= n {
			break
		}
		var level float64
		for _, ch := range channels {
			level += math.Abs(ch[i])
		}
		if level < bestLevel {
			best, bestLevel = i, level
		}
	}
	return best
}
