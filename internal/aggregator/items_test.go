package aggregator

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

func TestLegendaryBuysStackMatching(t *testing.T) {
	frames := []model.Frame{
		{Timestamp: clock(0, 0)},
		{Timestamp: clock(1, 0), Events: []model.Event{
			&model.ItemPurchased{Timestamp: clock(0, 30), ParticipantID: 1, ItemID: 1001},
			&model.ItemUndo{Timestamp: clock(0, 31), ParticipantID: 2, BeforeID: 1001},
		}},
		{Timestamp: clock(2, 0), Events: []model.Event{
			&model.ItemPurchased{Timestamp: clock(1, 30), ParticipantID: 1, ItemID: 2503},
			&model.ItemPurchased{Timestamp: clock(1, 45), ParticipantID: 2, ItemID: 2503},
		}},
		{Timestamp: clock(3, 0), Events: []model.Event{
			&model.ItemSold{Timestamp: clock(2, 25), ParticipantID: 1, ItemID: 2503},
			&model.ItemPurchased{Timestamp: clock(2, 30), ParticipantID: 1, ItemID: 3118},
		}},
		{Timestamp: clock(4, 0), Events: []model.Event{
			&model.ItemPurchased{Timestamp: clock(3, 30), ParticipantID: 2, ItemID: 2503},
			&model.ItemUndo{Timestamp: clock(3, 31), ParticipantID: 2, BeforeID: 2503, AfterID: 0},
			&model.ItemPurchased{Timestamp: clock(3, 32), ParticipantID: 2, ItemID: 2504},
			&model.ItemPurchased{Timestamp: clock(3, 45), ParticipantID: 1, ItemID: 3116},
		}},
	}

	got1, err := LegendaryBuys(frames, 1)
	if err != nil {
		t.Fatalf("participant 1: %v", err)
	}
	want1 := []time.Duration{clock(2, 30).Duration(), clock(3, 45).Duration()}
	if !reflect.DeepEqual(got1, want1) {
		t.Errorf("participant 1 = %v, want %v", got1, want1)
	}

	got2, err := LegendaryBuys(frames, 2)
	if err != nil {
		t.Fatalf("participant 2: %v", err)
	}
	want2 := []time.Duration{clock(1, 45).Duration(), clock(3, 32).Duration()}
	if !reflect.DeepEqual(got2, want2) {
		t.Errorf("participant 2 = %v, want %v", got2, want2)
	}
}

func TestLegendaryBuysUndoUsesRevertedItem(t *testing.T) {
	// Only BeforeID counts: an undo restoring a legendary does not pop.
	frames := []model.Frame{
		{Timestamp: clock(0, 0)},
		{Timestamp: clock(10, 0), Events: []model.Event{
			&model.ItemPurchased{Timestamp: clock(8, 0), ParticipantID: 3, ItemID: 3046},
			&model.ItemUndo{Timestamp: clock(9, 0), ParticipantID: 3, BeforeID: 0, AfterID: 3046},
		}},
	}
	got, err := LegendaryBuys(frames, 3)
	if err != nil {
		t.Fatalf("LegendaryBuys: %v", err)
	}
	if len(got) != 1 || got[0] != 8*time.Minute {
		t.Errorf("got %v, want [8m0s]", got)
	}
}

func TestLegendaryBuysUnderflow(t *testing.T) {
	frames := []model.Frame{
		{Timestamp: clock(0, 0)},
		{Timestamp: clock(1, 0), Events: []model.Event{
			&model.ItemSold{Timestamp: clock(0, 40), ParticipantID: 4, ItemID: 3118},
		}},
	}
	_, err := LegendaryBuys(frames, 4)
	if !errors.Is(err, ErrItemStackUnderflow) {
		t.Fatalf("err = %v, want ErrItemStackUnderflow", err)
	}
}

func TestLegendaryBuysNone(t *testing.T) {
	frames := []model.Frame{
		{Timestamp: clock(0, 0), Events: []model.Event{
			&model.ItemPurchased{Timestamp: clock(0, 5), ParticipantID: 1, ItemID: 1054},
			&model.ItemPurchased{Timestamp: clock(0, 6), ParticipantID: 1, ItemID: 2003},
		}},
	}
	got, err := LegendaryBuys(frames, 1)
	if err != nil {
		t.Fatalf("LegendaryBuys: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}
