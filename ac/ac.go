// Package ac defines the interfaces the arithmetic coding algorithm requires.
// See its subpackages for the bit framing, the adaptive model, and the finite precision realization of the algorithm.
package ac

import (
	"github.com/pkg/errors"
)

const (
	// NumSymbols is the size of the coded alphabet: the 256 byte values plus EOF.
	NumSymbols = 257

	// EOF is the reserved symbol that terminates a coded stream.
	EOF = NumSymbols - 1
)

// ErrDecodeInsufficientBits is returned when the input ends before the EOF symbol is decoded.
var ErrDecodeInsufficientBits = errors.New("insufficient bits sent to decoder")

// ErrCorrupt is returned when a decoded value falls outside every symbol's range.
// This does not happen on a stream produced by the encoder.
var ErrCorrupt = errors.New("corrupt arithmetic coded stream")

// A PRange is the probability of a symbol expressed as the fraction [Lower, Upper) / Denom.
type PRange struct {
	Lower uint32
	Upper uint32
	Denom uint32
}

// A Model is an adaptive probabilistic model on a sequence of symbols,
// as expected by the arithmetic coding algorithm.
// Encoders and decoders must each own a Model, and feed it the same sequence of symbols.
type Model interface {
	// Range returns the probability range of symbol.
	Range(symbol int) PRange

	// Symbol returns the symbol whose range contains the scaled value v, where 0 <= v < Total().
	Symbol(v uint32) (int, error)

	// Total returns the denominator of the ranges currently returned by Range.
	Total() uint32

	// Observe informs the Model that symbol is observed from the sequence.
	Observe(symbol int)
}

// A BitWriter is a sink of bits.
type BitWriter interface {
	// WriteBit writes the lowest bit of bit.
	WriteBit(bit int) error

	// Flush pads the pending bits to a byte boundary and flushes the underlying sink.
	Flush() error
}

// A BitReader is a source of bits.
type BitReader interface {
	// ReadBit returns the next bit, or io.EOF when the source is exhausted.
	ReadBit() (int, error)
}
