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

var verbose = flag.Bool("verbose", false, "log compression statistics")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input [output]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}

	stats, err := run(name, flag.Arg(1))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *verbose {
		log.Printf("%s: %v", name, stats)
	}
}

func run(name, output string) (arith.Stats, error) {
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

	stats, err := arith.CompressFile(dst, name)
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
