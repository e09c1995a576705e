// Package arith provides a lossless byte-stream compressor based on adaptive arithmetic coding.
// Bytes are coded with the 32-bit Witten-Neal-Cleary algorithm driven by an adaptive order-0 model.
// The compressed stream has no header; it ends with a coded EOF symbol.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go gettysburg.txt gettys.ac
//    go run decompress/main.go gettys.ac gettys.dac
//    diff gettysburg.txt gettys.dac
package arith

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fumin/arith/ac/bitio"
	"github.com/fumin/arith/ac/order0"
	"github.com/fumin/arith/ac/witten"
	"github.com/pkg/errors"
)

// Stats describes a compression or decompression run.
type Stats struct {
	// Raw is the number of uncompressed bytes.
	Raw     int64
	// Coded is the number of compressed bytes.
	Coded   int64
	// Elapsed is the duration of the run.
	Elapsed time.Duration
}

// Ratio returns the compression ratio Raw / Coded.
func (s Stats) Ratio() float64 {
	if s.Coded == 0 {
		return 0
	}
	return float64(s.Raw) / float64(s.Coded)
}

// BitsPerSymbol returns the average number of compressed bits per uncompressed byte.
func (s Stats) BitsPerSymbol() float64 {
	if s.Raw == 0 {
		return 0
	}
	return float64(s.Coded) * 8 / float64(s.Raw)
}

// Throughput returns the number of uncompressed megabytes processed per second.
func (s Stats) Throughput() float64 {
	secs := s.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.Raw) / (secs * 1e6)
}

func (s Stats) String() string {
	return fmt.Sprintf("raw: %d bytes, coded: %d bytes, ratio: %f, bits/symbol: %f, speed: %.2f MB/s",
		s.Raw, s.Coded, s.Ratio(), s.BitsPerSymbol(), s.Throughput())
}

type countingReader struct {
	r io.ByteReader
	n int64
}

func (r *countingReader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.n++
	}
	return b, err
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (w *countingWriter) WriteByte(b byte) error {
	if err := w.w.WriteByte(b); err != nil {
		return err
	}
	w.n++
	return nil
}

// Compress compresses src into dst.
func Compress(dst io.Writer, src io.Reader) (Stats, error) {
	start := time.Now()
	br, ok := src.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(src)
	}
	cr := &countingReader{r: br}
	w := bitio.NewWriter(dst)
	if err := witten.Encode(w, cr, order0.New()); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	return Stats{Raw: cr.n, Coded: w.Written(), Elapsed: time.Since(start)}, nil
}

// CompressFile compresses the file called name into dst.
func CompressFile(dst io.Writer, name string) (Stats, error) {
	f, err := os.Open(name)
	if err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	defer f.Close()
	stats, err := Compress(dst, f)
	if err != nil {
		return Stats{}, errors.Wrap(err, name)
	}
	return stats, nil
}

// Decompress decompresses src, which should be produced by Compress, into dst.
// Decompress stops reading src after the EOF symbol.
func Decompress(dst io.Writer, src io.Reader) (Stats, error) {
	start := time.Now()
	r := bitio.NewReader(src)
	cw := &countingWriter{w: bufio.NewWriter(dst)}
	if err := witten.Decode(cw, r, order0.New()); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	if err := cw.w.Flush(); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	return Stats{Raw: cw.n, Coded: r.Consumed(), Elapsed: time.Since(start)}, nil
}

// A Writer compresses the bytes written to it.
// The stream is terminated on Close.
type Writer struct {
	e *witten.Encoder
}

// NewWriter returns a Writer that writes compressed data to w.
// It is the caller's responsibility to call Close on the Writer when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{e: witten.NewEncoder(bitio.NewWriter(w), order0.New())}
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := w.e.Encode(b); err != nil {
			return i, errors.Wrap(err, "")
		}
	}
	return len(p), nil
}

// Close terminates the compressed stream and flushes it to the underlying writer.
// It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.e.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// NewReader returns a ReadCloser that decompresses r.
// Closing the returned ReadCloser stops the decompression.
func NewReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := Decompress(pw, r)
		pw.CloseWithError(err)
	}()
	return pr
}
