package aggregator

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatches is returned when a group or the filtered match set is empty.
	ErrNoMatches = errors.New("no qualifying matches")

	ErrParticipantNotFound = errors.New("participant not found")
	ErrOpponentNotFound    = errors.New("positional opponent not found")
	ErrTimelineNotFound    = errors.New("timeline not found")
	ErrSnapshotMissing     = errors.New("participant snapshot missing from frame")
	ErrFrameNotFound       = errors.New("no bracketing frame")
	ErrInvalidDuration     = errors.New("game shorter than one minute")
	ErrInvalidWindow       = errors.New("lookback window must be at least one week")

	// ErrItemStackUnderflow is a sell or undo of a legendary item with no open purchase.
	ErrItemStackUnderflow = errors.New("legendary sell/undo without matching purchase")
)

// MatchError attaches the offending match id to a data-integrity failure.
type MatchError struct {
	MatchID string
	Err     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match %s: %v", e.MatchID, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }
