package history

import (
	"fmt"
	"time"

	"github.com/dshills/notedraft/internal/engine/buffer"
)

// group is one undo unit: the transactions merged by the History stack.
type group struct {
	transactions []*Transaction
	first        time.Time
	last         time.Time

	// closed groups never accept another transaction.
	closed bool
}

func newGroup(tr *Transaction) *group {
	t := tr.EffectiveTime()
	return &group{
		transactions: []*Transaction{tr},
		first:        t,
		last:         t,
	}
}

func (g *group) add(tr *Transaction) {
	g.transactions = append(g.transactions, tr)
	if t := tr.EffectiveTime(); t.After(g.last) {
		g.last = t
	}
}

// undo reverts every step of the group, newest first.
func (g *group) undo(buf *buffer.Buffer) error {
	for i := len(g.transactions) - 1; i >= 0; i-- {
		steps := g.transactions[i].Steps
		for j := len(steps) - 1; j >= 0; j-- {
			if err := steps[j].Invert().Apply(buf); err != nil {
				return fmt.Errorf("undo %s: %w", g.transactions[i].Description(), err)
			}
		}
	}
	return nil
}

// redo reapplies every step of the group, oldest first.
func (g *group) redo(buf *buffer.Buffer) error {
	for _, tr := range g.transactions {
		for _, s := range tr.Steps {
			if err := s.Apply(buf); err != nil {
				return fmt.Errorf("redo %s: %w", tr.Description(), err)
			}
		}
	}
	return nil
}

func (g *group) info() GroupInfo {
	delta := 0
	for _, tr := range g.transactions {
		delta += tr.BytesDelta()
	}

	desc := g.transactions[0].Description()
	if n := len(g.transactions); n > 1 {
		desc = fmt.Sprintf("%s (+%d more)", desc, n-1)
	}

	return GroupInfo{
		Description:  desc,
		Start:        g.first,
		End:          g.last,
		Transactions: len(g.transactions),
		BytesDelta:   delta,
	}
}
