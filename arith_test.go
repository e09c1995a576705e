package arith

import (
	"bytes"
	"io"
	"io/ioutil"
	"math/rand"
	"testing"
	"time"

	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

func roundTrip(t *testing.T, x []byte) []byte {
	compressed := bytes.NewBuffer(nil)
	if _, err := Compress(compressed, bytes.NewReader(x)); err != nil {
		t.Fatalf("%+v", err)
	}
	encoded := append([]byte(nil), compressed.Bytes()...)

	decompressed := bytes.NewBuffer(nil)
	if _, err := Decompress(decompressed, compressed); err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(decompressed.Bytes(), x) {
		t.Fatalf("%x != %x", decompressed.Bytes(), x)
	}
	return encoded
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	random := make([]byte, 4096)
	rnd.Read(random)

	tests := []struct {
		name string
		x    []byte
	}{
		{name: "empty", x: []byte{}},
		{name: "single", x: []byte{0xFF}},
		{name: "zero", x: []byte{0x00}},
		{name: "ABABAB", x: []byte("ABABAB")},
		{name: "repeated", x: bytes.Repeat([]byte("AB"), 5000)},
		{name: "all bytes", x: func() []byte {
			b := make([]byte, 0, 256*4)
			for i := 0; i < cap(b); i++ {
				b = append(b, byte(i))
			}
			return b
		}()},
		{name: "random", x: random},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := roundTrip(t, tt.x)
			if len(encoded) == 0 {
				t.Errorf("empty encoding")
			}
			t.Logf("%d -> %d", len(tt.x), len(encoded))
		})
	}
}

func TestRepeatedPattern(t *testing.T) {
	// The model needs a batch of observations before it adapts.
	short := roundTrip(t, []byte("ABABAB"))
	if len(short) > 8 {
		t.Errorf("%d", len(short))
	}

	long := roundTrip(t, bytes.Repeat([]byte("AB"), 5000))
	if len(long) > 10000/4 {
		t.Errorf("%d", len(long))
	}
}

func TestStats(t *testing.T) {
	s := Stats{Raw: 2000000, Coded: 500000, Elapsed: time.Second}
	if s.Ratio() != 4 {
		t.Errorf("%f", s.Ratio())
	}
	if s.BitsPerSymbol() != 2 {
		t.Errorf("%f", s.BitsPerSymbol())
	}
	if s.Throughput() != 2 {
		t.Errorf("%f", s.Throughput())
	}

	var zero Stats
	if zero.Ratio() != 0 || zero.BitsPerSymbol() != 0 || zero.Throughput() != 0 {
		t.Errorf("%v", zero)
	}
}

func TestWriterReader(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}

	pr, pw := io.Pipe()
	go func() {
		w := NewWriter(pw)
		// Write in uneven pieces.
		for p := gettys; len(p) > 0; {
			n := 37
			if n > len(p) {
				n = len(p)
			}
			if _, err := w.Write(p[:n]); err != nil {
				pw.CloseWithError(err)
				return
			}
			p = p[n:]
		}
		pw.CloseWithError(w.Close())
	}()

	r := NewReader(pr)
	defer r.Close()
	decom, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(decom, gettys) {
		t.Errorf("%q", decom)
	}
}

func TestWriterMatchesCompress(t *testing.T) {
	x := []byte("Four score and seven years ago")
	a := bytes.NewBuffer(nil)
	if _, err := Compress(a, bytes.NewReader(x)); err != nil {
		t.Fatalf("%+v", err)
	}

	b := bytes.NewBuffer(nil)
	w := NewWriter(b)
	if _, err := w.Write(x); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("%x != %x", a.Bytes(), b.Bytes())
	}
}

func TestDecompressTruncated(t *testing.T) {
	_, err := Decompress(ioutil.Discard, bytes.NewReader(nil))
	if errors.Cause(err) != ac.ErrDecodeInsufficientBits {
		t.Fatalf("%+v", err)
	}

	r := NewReader(bytes.NewReader(nil))
	defer r.Close()
	if _, err := ioutil.ReadAll(r); errors.Cause(err) != ac.ErrDecodeInsufficientBits {
		t.Fatalf("%+v", err)
	}
}
