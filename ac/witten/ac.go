// Package witten implements the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// The coding interval is held in 32-bit registers.
// Products of the interval width and a cumulative count are taken in 64 bits before dividing by the model's total.
package witten

import (
	"io"
	"math"

	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

const (
	codeValueBits = 32
	topValue      = uint32(math.MaxUint32)
	firstQtr      = topValue/4 + 1
	half          = 2 * firstQtr
	thirdQtr      = 3 * firstQtr
)

var errClosed = errors.New("encoder is closed")

// narrow shrinks the interval [low, high] to the sub-interval of r.
func narrow(low, high uint32, r ac.PRange) (uint32, uint32) {
	arange := uint64(high-low) + 1
	newHigh := low + uint32(arange*uint64(r.Upper)/uint64(r.Denom)-1)
	newLow := low + uint32(arange*uint64(r.Lower)/uint64(r.Denom))
	return newLow, newHigh
}

// An Encoder carries the state required by an encoder.
type Encoder struct {
	w     ac.BitWriter
	model ac.Model

	low   uint32
	high  uint32
	// fbits is the number of opposite bits to follow the next determined bit.
	fbits uint64

	closed bool
}

// NewEncoder returns an Encoder that writes to w using model.
// The encoder takes ownership of model and updates it with every encoded byte.
func NewEncoder(w ac.BitWriter, model ac.Model) *Encoder {
	return &Encoder{w: w, model: model, high: topValue}
}

func (e *Encoder) bitPlusFollow(bit int) error {
	if err := e.w.WriteBit(bit); err != nil {
		return errors.Wrap(err, "")
	}
	negbit := bit ^ 1
	for e.fbits > 0 {
		if err := e.w.WriteBit(negbit); err != nil {
			return errors.Wrap(err, "")
		}
		e.fbits--
	}
	return nil
}

func (e *Encoder) encode(r ac.PRange) error {
	e.low, e.high = narrow(e.low, e.high, r)

	for {
		if e.high < half {
			if err := e.bitPlusFollow(0); err != nil {
				return err
			}
		} else if e.low >= half {
			if err := e.bitPlusFollow(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		} else if e.low >= firstQtr && e.high < thirdQtr {
			e.fbits++
			e.low -= firstQtr
			e.high -= firstQtr
		} else {
			break
		}

		e.low = 2 * e.low
		e.high = 2*e.high + 1
	}
	return nil
}

// Encode encodes a byte.
func (e *Encoder) Encode(b byte) error {
	if e.closed {
		return errors.WithStack(errClosed)
	}
	symbol := int(b)
	if err := e.encode(e.model.Range(symbol)); err != nil {
		return err
	}
	e.model.Observe(symbol)
	return nil
}

// Close encodes the EOF symbol, writes the bits that disambiguate the final interval, and flushes the underlying BitWriter.
// Close does not close the sink of the BitWriter.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.encode(e.model.Range(ac.EOF)); err != nil {
		return err
	}

	e.fbits++
	bit := 1
	if e.low < firstQtr {
		bit = 0
	}
	if err := e.bitPlusFollow(bit); err != nil {
		return err
	}

	if err := e.w.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// A Decoder carries the state required by a decoder.
type Decoder struct {
	r     ac.BitReader
	model ac.Model

	low   uint32
	high  uint32
	value uint32

	// garbageBits counts the zero bits substituted after the input ran out.
	garbageBits int
	done        bool
}

// NewDecoder returns a Decoder that reads from r using model.
// model must be in the same state as the model given to the Encoder at the start of the stream.
// NewDecoder reads the first 32 bits of the stream.
func NewDecoder(r ac.BitReader, model ac.Model) (*Decoder, error) {
	d := &Decoder{r: r, model: model, high: topValue}
	for i := 0; i < codeValueBits; i++ {
		inb, err := d.readBit()
		if err != nil {
			return nil, err
		}
		d.value = 2*d.value + inb
	}
	return d, nil
}

// readBit returns the next input bit, or zero once the input is exhausted.
// A well formed stream terminates with fewer than codeValueBits bits missing,
// so running further past the end means the stream is truncated.
func (d *Decoder) readBit() (uint32, error) {
	b, err := d.r.ReadBit()
	if err == nil {
		return uint32(b), nil
	}
	if err != io.EOF {
		return 0, errors.Wrap(err, "")
	}
	d.garbageBits++
	if d.garbageBits > codeValueBits {
		return 0, errors.WithStack(ac.ErrDecodeInsufficientBits)
	}
	return 0, nil
}

// Decode decodes the next byte.
// It returns io.EOF once the EOF symbol is decoded.
func (d *Decoder) Decode() (byte, error) {
	if d.done {
		return 0, io.EOF
	}

	total := uint64(d.model.Total())
	arange := uint64(d.high-d.low) + 1
	v := ((uint64(d.value-d.low)+1)*total - 1) / arange
	if v >= total {
		return 0, errors.Wrapf(ac.ErrCorrupt, "value %d outside interval [%d, %d]", d.value, d.low, d.high)
	}
	symbol, err := d.model.Symbol(uint32(v))
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	if symbol == ac.EOF {
		d.done = true
		return 0, io.EOF
	}

	d.low, d.high = narrow(d.low, d.high, d.model.Range(symbol))

	// rescale interval
	for {
		if d.high < half {
			// do nothing
		} else if d.low >= half {
			d.value -= half
			d.low -= half
			d.high -= half
		} else if d.low >= firstQtr && d.high < thirdQtr {
			d.value -= firstQtr
			d.low -= firstQtr
			d.high -= firstQtr
		} else {
			break
		}

		d.low = 2 * d.low
		d.high = 2*d.high + 1
		inb, err := d.readBit()
		if err != nil {
			return 0, err
		}
		d.value = 2*d.value + inb
	}

	d.model.Observe(symbol)
	return byte(symbol), nil
}

// Encode performs arithmetic coding on the bytes of src given an adaptive model.
// Encode consumes src until io.EOF and then terminates the stream and flushes dst.
func Encode(dst ac.BitWriter, src io.ByteReader, model ac.Model) error {
	e := NewEncoder(dst, model)
	for {
		b, err := src.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "")
		}
		if err := e.Encode(b); err != nil {
			return err
		}
	}
	return e.Close()
}

// Decode decodes a stream produced by Encode, writing the recovered bytes to dst.
// Decoding stops when the EOF symbol is decoded.
// Decode expects that model is in the same initial state as the model used in Encode.
// ErrDecodeInsufficientBits is returned if src runs out before the EOF symbol is reached.
func Decode(dst io.ByteWriter, src ac.BitReader, model ac.Model) error {
	d, err := NewDecoder(src, model)
	if err != nil {
		return err
	}
	for {
		b, err := d.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := dst.WriteByte(b); err != nil {
			return errors.Wrap(err, "")
		}
	}
}
