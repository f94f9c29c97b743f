package aggregator

import (
	"fmt"

	"github.com/pable/go-lol-metrics/internal/model"
)

// soloProximity is the distance (map units) within which a teammate could have helped.
const soloProximity = 4000.0

// SoloKills counts champion kills by participantID with no assisting participants.
func SoloKills(frames []model.Frame, participantID int) int {
	n := 0
	for _, f := range frames {
		for _, ev := range f.Events {
			if k, ok := ev.(*model.ChampionKill); ok && k.KillerID == participantID && len(k.AssistingParticipantIDs) == 0 {
				n++
			}
		}
	}
	return n
}

// SoloDeaths counts deaths of participantID where none of teammateIDs was
// within soloProximity of the death position in the frame before or the
// frame after the kill.
func SoloDeaths(frames []model.Frame, participantID int, teammateIDs []int) (int, error) {
	n := 0
	for _, f := range frames {
		for _, ev := range f.Events {
			k, ok := ev.(*model.ChampionKill)
			if !ok || k.VictimID != participantID {
				continue
			}
			solo, err := isSoloDeath(frames, k, teammateIDs)
			if err != nil {
				return 0, err
			}
			if solo {
				n++
			}
		}
	}
	return n, nil
}

func isSoloDeath(frames []model.Frame, k *model.ChampionKill, teammateIDs []int) (bool, error) {
	before, after := -1, -1
	for i, f := range frames {
		if f.Timestamp < k.Timestamp {
			before = i
		} else if f.Timestamp > k.Timestamp && after < 0 {
			after = i
		}
	}
	if before < 0 || after < 0 {
		return false, fmt.Errorf("death at %s: %w", k.At(), ErrFrameNotFound)
	}
	for _, idx := range [2]int{before, after} {
		frame := frames[idx]
		for _, id := range teammateIDs {
			pf, ok := frame.ParticipantFrames[id]
			if !ok {
				return false, fmt.Errorf("participant %d at %dms: %w", id, frame.Timestamp, ErrSnapshotMissing)
			}
			if pf.Position.Distance(k.Position) < soloProximity {
				return false, nil
			}
		}
	}
	return true, nil
}
