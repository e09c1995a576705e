package arith

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func zstdSize(t testing.TB, x []byte) int {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(x, nil)

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer dec.Close()
	decom, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(decom, x) {
		t.Fatalf("zstd round trip failed")
	}
	return len(compressed)
}

// TestCompareZstd reports our sizes next to zstd's.
// An order-0 coder cannot exploit repetition, but on data without structure it should not lose to a dictionary coder by much.
func TestCompareZstd(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	random := make([]byte, 1<<16)
	rand.New(rand.NewSource(6)).Read(random)

	for _, tc := range []struct {
		name string
		x    []byte
	}{
		{name: "gettysburg", x: gettys},
		{name: "random", x: random},
	} {
		ours := len(roundTrip(t, tc.x))
		theirs := zstdSize(t, tc.x)
		t.Logf("%s: original %d, arith %d, zstd %d", tc.name, len(tc.x), ours, theirs)
		if tc.name == "random" && ours > theirs+theirs/50 {
			t.Errorf("%s: arith %d, zstd %d", tc.name, ours, theirs)
		}
	}
}

// normalBytes returns n bytes drawn from a discretized normal distribution around 128.
func normalBytes(n int) []byte {
	x := make([]byte, n)
	rnd := rand.New(rand.NewSource(7))
	for i := range x {
		v := rnd.NormFloat64()*16 + 128
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		x[i] = byte(v)
	}
	return x
}

func BenchmarkCompress(b *testing.B) {
	x := normalBytes(1 << 20)
	b.SetBytes(int64(len(x)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(ioutil.Discard, bytes.NewReader(x)); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}

func BenchmarkZstd(b *testing.B) {
	x := normalBytes(1 << 20)
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		b.Fatalf("%v", err)
	}
	defer enc.Close()
	b.SetBytes(int64(len(x)))
	b.ResetTimer()
	var dst []byte
	for i := 0; i < b.N; i++ {
		dst = enc.EncodeAll(x, dst[:0])
	}
}
