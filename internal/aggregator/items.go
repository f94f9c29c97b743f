package aggregator

import (
	"fmt"
	"time"

	"github.com/pable/go-lol-metrics/internal/gamedata"
	"github.com/pable/go-lol-metrics/internal/model"
)

// itemTx is one legendary shop action: a purchase opens an entry, a sale or
// undo closes the most recent one.
type itemTx struct {
	at  time.Duration
	buy bool
}

// LegendaryBuys reconstructs the times participantID acquired legendary items
// that were still owned at the end of the game, in purchase order.
func LegendaryBuys(frames []model.Frame, participantID int) ([]time.Duration, error) {
	var txs []itemTx
	for _, f := range frames {
		for _, ev := range f.Events {
			switch e := ev.(type) {
			case *model.ItemPurchased:
				if e.ParticipantID == participantID && gamedata.IsLegendary(e.ItemID) {
					txs = append(txs, itemTx{at: e.At(), buy: true})
				}
			case *model.ItemSold:
				if e.ParticipantID == participantID && gamedata.IsLegendary(e.ItemID) {
					txs = append(txs, itemTx{at: e.At()})
				}
			case *model.ItemUndo:
				// The reverted item decides, not the restored one.
				if e.ParticipantID == participantID && gamedata.IsLegendary(e.BeforeID) {
					txs = append(txs, itemTx{at: e.At()})
				}
			}
		}
	}

	stack := make([]time.Duration, 0, len(txs))
	for _, tx := range txs {
		if tx.buy {
			stack = append(stack, tx.at)
			continue
		}
		if len(stack) == 0 {
			return nil, fmt.Errorf("participant %d at %s: %w", participantID, tx.at, ErrItemStackUnderflow)
		}
		stack = stack[:len(stack)-1]
	}
	return stack, nil
}
