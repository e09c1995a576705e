// Package order0 implements an adaptive order-0 model over bytes and the EOF symbol.
//
// Observed symbols are buffered and folded into the cumulative frequency table in batches,
// so that the cost of rebuilding the table is amortized over many symbols.
// Adaptation stops once the total count reaches a fixed ceiling,
// which keeps the total below the width of the 32-bit coding interval.
package order0

import (
	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

const (
	// BatchSize is the number of observations buffered before the table is rebuilt.
	BatchSize = 256

	// MaxTotal is the ceiling of the total count.
	MaxTotal = 1 << 30
)

// A Model is an adaptive order-0 model.
// Model implements the arithmetic coding Model interface.
type Model struct {
	// cum[s] is the cumulative count of the symbols 0..s.
	cum     [ac.NumSymbols]uint32
	pending []byte
	ceiling uint32
}

// New returns a Model in which every symbol has a count of one.
func New() *Model {
	return newModel(MaxTotal)
}

func newModel(ceiling uint32) *Model {
	m := &Model{
		pending: make([]byte, 0, BatchSize),
		ceiling: ceiling,
	}
	for s := range m.cum {
		m.cum[s] = uint32(s) + 1
	}
	return m
}

// Range returns the probability range of symbol.
func (m *Model) Range(symbol int) ac.PRange {
	var lower uint32
	if symbol > 0 {
		lower = m.cum[symbol-1]
	}
	return ac.PRange{Lower: lower, Upper: m.cum[symbol], Denom: m.Total()}
}

// Symbol returns the smallest symbol s such that v < cum[s].
func (m *Model) Symbol(v uint32) (int, error) {
	if v >= m.Total() {
		return -1, errors.Wrapf(ac.ErrCorrupt, "value %d outside total %d", v, m.Total())
	}
	s := 0
	for v >= m.cum[s] {
		s++
	}
	return s, nil
}

// Total returns the sum of all symbol counts.
func (m *Model) Total() uint32 {
	return m.cum[ac.EOF]
}

// Observe buffers symbol for the next rebuild.
// Observing the EOF symbol, or observing anything once the ceiling is reached, has no effect.
func (m *Model) Observe(symbol int) {
	if symbol < 0 || symbol >= ac.EOF {
		return
	}
	if m.Total() >= m.ceiling {
		return
	}
	m.pending = append(m.pending, byte(symbol))
	if len(m.pending) >= BatchSize || m.Total()+uint32(len(m.pending)) >= m.ceiling {
		m.Rebuild()
	}
}

// Rebuild folds the buffered observations into the cumulative table.
func (m *Model) Rebuild() {
	var inc [ac.NumSymbols]uint32
	for _, s := range m.pending {
		inc[s]++
	}
	for s := 1; s < len(inc); s++ {
		inc[s] += inc[s-1]
	}
	for s := range m.cum {
		m.cum[s] += inc[s]
	}
	m.pending = m.pending[:0]
}

// Table returns a copy of the cumulative frequency table.
func (m *Model) Table() [ac.NumSymbols]uint32 {
	return m.cum
}

// Pending returns the number of observations not yet folded into the table.
func (m *Model) Pending() int {
	return len(m.pending)
}
