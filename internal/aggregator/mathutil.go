package aggregator

import (
	"slices"
	"time"
)

// xpPerLevel is the XP needed to go from level n+1 to n+2.
var xpPerLevel = [17]int{
	280, 380, 480, 580, 680, 780, 880, 980, 1080, 1180, 1280, 1380, 1480, 1580, 1680, 1780, 1880,
}

// LevelForXP converts total XP into a fractional champion level in [1, 18].
func LevelForXP(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	level := 1.0
	for _, need := range xpPerLevel {
		if xp < need {
			level += float64(xp) / float64(need)
			break
		}
		level++
		xp -= need
	}
	return level
}

type number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~float64
}

// median returns the middle value; an even-length input averages the two
// central values. Returns 0 for empty input.
func median[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func average[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// medianDuration works in whole seconds like the rendered values.
func medianDuration(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	secs := make([]int64, len(values))
	for i, v := range values {
		secs[i] = int64(v / time.Second)
	}
	slices.Sort(secs)
	mid := len(secs) / 2
	if len(secs)%2 == 0 {
		return time.Duration((secs[mid-1]+secs[mid])/2) * time.Second
	}
	return time.Duration(secs[mid]) * time.Second
}
