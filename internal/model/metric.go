package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Ordering is the direction of a visible change. Greater always means "better".
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// NumberMetric is a scalar rounded to one decimal with an optional delta
// against a baseline.
type NumberMetric struct {
	Value          float64  `json:"value"`
	Delta          *float64 `json:"delta,omitempty"`
	HigherIsBetter bool     `json:"higherIsBetter"`
}

func NewNumber(v float64) NumberMetric {
	return NumberMetric{Value: roundTenth(v), HigherIsBetter: true}
}

// NewLowerIsBetter builds a metric whose improvements are decreases (deaths).
func NewLowerIsBetter(v float64) NumberMetric {
	return NumberMetric{Value: roundTenth(v)}
}

// CompareTo sets the delta to m.Value - baseline.Value.
func (m *NumberMetric) CompareTo(baseline NumberMetric) {
	d := m.Value - baseline.Value
	m.Delta = &d
}

// HasVisibleDiff reports whether the delta survives rounding to one decimal.
func (m NumberMetric) HasVisibleDiff() Ordering {
	if m.Delta == nil {
		return Equal
	}
	factor := 10.0
	if !m.HigherIsBetter {
		factor = -factor
	}
	scaled := math.Round(*m.Delta * factor)
	switch {
	case scaled >= 1:
		return Greater
	case scaled <= -1:
		return Less
	}
	return Equal
}

func (m NumberMetric) String() string {
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// DeltaString renders the delta as "+1.5" / "-0.3", or "" when unset.
func (m NumberMetric) DeltaString() string {
	if m.Delta == nil {
		return ""
	}
	d := roundTenth(*m.Delta)
	if d >= 0 {
		return "+" + strconv.FormatFloat(d, 'f', -1, 64)
	}
	return strconv.FormatFloat(d, 'f', -1, 64)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// DurationMetric is a time span with an optional delta. Shorter is better by default.
type DurationMetric struct {
	Value         time.Duration  `json:"value"`
	Delta         *time.Duration `json:"delta,omitempty"`
	LowerIsBetter bool           `json:"lowerIsBetter"`
}

func NewDuration(d time.Duration) DurationMetric {
	return DurationMetric{Value: d, LowerIsBetter: true}
}

func (m *DurationMetric) CompareTo(baseline DurationMetric) {
	d := m.Value - baseline.Value
	m.Delta = &d
}

// HasVisibleDiff applies a whole-second threshold to the delta.
func (m DurationMetric) HasVisibleDiff() Ordering {
	if m.Delta == nil {
		return Equal
	}
	d := *m.Delta
	if m.LowerIsBetter {
		d = -d
	}
	secs := int64(d / time.Second)
	switch {
	case secs >= 1:
		return Greater
	case secs <= -1:
		return Less
	}
	return Equal
}

// String renders the value as "1h2m3s", omitting zero leading units.
func (m DurationMetric) String() string {
	return formatSeconds(int64(m.Value / time.Second))
}

// DeltaString renders the delta as "+1m30s" / "-45s", or "" when unset.
func (m DurationMetric) DeltaString() string {
	if m.Delta == nil {
		return ""
	}
	secs := int64(*m.Delta / time.Second)
	if secs < 0 {
		return "-" + formatSeconds(-secs)
	}
	return "+" + formatSeconds(secs)
}

func formatSeconds(secs int64) string {
	var b strings.Builder
	hours := secs / 3600
	secs %= 3600
	minutes := secs / 60
	secs %= 60
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10) + "h")
	}
	if minutes > 0 {
		b.WriteString(strconv.FormatInt(minutes, 10) + "m")
	}
	b.WriteString(strconv.FormatInt(secs, 10) + "s")
	return b.String()
}
