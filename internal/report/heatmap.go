package report

import (
	json "github.com/goccy/go-json"

	"github.com/pable/go-lol-metrics/internal/model"
)

// histogramSize returns the number of minutes and total positions in a
// serialized heatmap histogram. Malformed input counts as empty.
func histogramSize(hist string) (minutes, points int) {
	var h map[int][]model.Point
	if err := json.Unmarshal([]byte(hist), &h); err != nil {
		return 0, 0
	}
	for _, pts := range h {
		points += len(pts)
	}
	return len(h), points
}
