package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fumin/arith"
	"github.com/pkg/errors"
)

var verbose = flag.Bool("verbose", false, "log decompression statistics")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [input [output]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	stats, err := run(flag.Arg(0), flag.Arg(1))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *verbose {
		log.Printf("%v", stats)
	}
}

func run(input, output string) (arith.Stats, error) {
	var src io.Reader = os.Stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return arith.Stats{}, errors.Wrap(err, "")
		}
		defer f.Close()
		src = f
	}

	var dst io.Writer = os.Stdout
	var out *os.File
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return arith.Stats{}, errors.Wrap(err, "")
		}
		defer f.Close()
		dst, out = f, f
	}

	stats, err := arith.Decompress(dst, src)
	if err != nil {
		return arith.Stats{}, errors.Wrap(err, "")
	}
	if out != nil {
		if err := out.Close(); err != nil {
			return arith.Stats{}, errors.Wrap(err, "")
		}
	}
	return stats, nil
}
