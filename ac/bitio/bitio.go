// Package bitio packs bits into bytes, most significant bit first.
package bitio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

type byteFlusher interface {
	io.ByteWriter
	Flush() error
}

func makeWriter(w io.Writer) byteFlusher {
	if ww, ok := w.(byteFlusher); ok {
		return ww
	}
	return bufio.NewWriter(w)
}

// A Writer writes bits to an underlying byte sink.
type Writer struct {
	w       byteFlusher
	buf     byte
	n       uint
	written int64
}

// NewWriter returns a Writer on w.
// Writes to w are buffered unless w already provides WriteByte and Flush.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: makeWriter(w)}
}

// WriteBit appends the lowest bit of bit to the stream.
func (w *Writer) WriteBit(bit int) error {
	w.buf = w.buf<<1 | byte(bit&1)
	w.n++
	if w.n < 8 {
		return nil
	}
	return w.emit()
}

// Flush writes the pending partial byte, if any, with its low bits padded with zeros,
// and then flushes the underlying sink.
func (w *Writer) Flush() error {
	if w.n > 0 {
		w.buf <<= 8 - w.n
		if err := w.emit(); err != nil {
			return err
		}
	}
	if err := w.w.Flush(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Written returns the number of bytes written to the sink, including a padded final byte.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) emit() error {
	if err := w.w.WriteByte(w.buf); err != nil {
		return errors.WithStack(err)
	}
	w.buf, w.n = 0, 0
	w.written++
	return nil
}

// A Reader reads bits from an underlying byte source.
type Reader struct {
	r    io.ByteReader
	buf  byte
	n    uint
	read int64
}

// NewReader returns a Reader on r.
// Reads from r are buffered unless r is already an io.ByteReader.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// ReadBit returns the next bit of the stream.
// It returns io.EOF once the source is exhausted.
func (r *Reader) ReadBit() (int, error) {
	if r.n == 0 {
		b, err := r.r.ReadByte()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.WithStack(err)
		}
		r.buf, r.n = b, 8
		r.read++
	}
	r.n--
	return int(r.buf>>r.n) & 1, nil
}

// Consumed returns the number of bytes consumed from the source.
func (r *Reader) Consumed() int64 {
	return r.read
}
