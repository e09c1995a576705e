package main

import (
	"bytes"
	"flag"
	"io/ioutil"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumin/arith"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	intelligenceType = flag.String("i", "ac", "compressor used to measure complexity, ac or zstd")
	dataDir          = flag.String("d", "mammals10", "data directory")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(*intelligenceType, *dataDir); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(intelligence, dir string) error {
	data, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	c, err := newComplexity(intelligence)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer c.Close()
	distMat, err := distanceMatrix(c, data)
	if err != nil {
		return errors.Wrap(err, "")
	}

	if err := display(data, distMat); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func display(data []string, distMat []float64) error {
	// Print data as a comma separated array.
	buf := bytes.NewBuffer(nil)
	for i, fpath := range data {
		name := filepath.Base(fpath)
		base := strings.TrimSuffix(name, filepath.Ext(name))
		buf.WriteString(strconv.Quote(base))
		if i < len(data)-1 {
			buf.WriteByte(',')
		}
	}
	log.Printf("[%s]", buf.Bytes())

	// Print distance matrix as a comma separated array.
	buf.Reset()
	for i, f := range distMat {
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		if i < len(distMat)-1 {
			buf.WriteByte(',')
		}
	}
	log.Printf("[%s]", buf.Bytes())

	return nil
}

// A complexity approximates the Kolmogorov complexity of data by its compressed size.
// Sizes of named inputs are cached.
type complexity struct {
	compress func([]byte) (int, error)
	cacher   map[string]float64
	zenc     *zstd.Encoder
}

func newComplexity(intelligence string) (*complexity, error) {
	c := &complexity{cacher: make(map[string]float64)}
	switch intelligence {
	case "ac":
		c.compress = compressedSizeAC
	case "zstd":
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		c.zenc = enc
		c.compress = func(x []byte) (int, error) {
			return len(enc.EncodeAll(x, nil)), nil
		}
	default:
		return nil, errors.Errorf("unknown intelligence type %q", intelligence)
	}
	return c, nil
}

func (c *complexity) Close() {
	if c.zenc != nil {
		c.zenc.Close()
	}
}

func (c *complexity) size(key string, x []byte) (float64, error) {
	size, ok := c.cacher[key]
	if ok {
		return size, nil
	}
	n, err := c.compress(x)
	if err != nil {
		return -1, errors.Wrap(err, key)
	}
	size = float64(n)
	c.cacher[key] = size
	return size, nil
}

func compressedSizeAC(x []byte) (int, error) {
	stats, err := arith.Compress(ioutil.Discard, bytes.NewReader(x))
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return int(stats.Coded), nil
}

// distance returns the normalized compression distance between the files x and y.
func distance(c *complexity, x, y string) (float64, error) {
	bx, err := ioutil.ReadFile(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	by, err := ioutil.ReadFile(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	bxy := make([]byte, 0, len(bx)+len(by))
	bxy = append(append(bxy, bx...), by...)

	kxy, err := c.size(x+"\x00"+y, bxy)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	kx, err := c.size(x, bx)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := c.size(y, by)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	minxy := kx
	if ky < kx {
		minxy = ky
	}
	maxxy := kx
	if ky > kx {
		maxxy = ky
	}

	dist := (kxy - minxy) / maxxy
	return dist, nil
}

func distanceMatrix(c *complexity, data []string) ([]float64, error) {
	n := len(data)
	if n < 2 {
		return nil, errors.Errorf("need at least two files, got %d", n)
	}
	mat := make([]float64, 0, n*(n-1)/2)
	for i, dx := range data[:n-1] {
		for _, dy := range data[i+1:] {
			dist, err := distance(c, dx, dy)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
			log.Printf("\"%s\"-\"%s\": %f", dx, dy, dist)
		}
	}
	return mat, nil
}

func listFiles(dir string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	data := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		fpath := filepath.Join(dir, f.Name())
		data = append(data, fpath)
	}
	return data, nil
}
