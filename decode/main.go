package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fumin/shannon"
	"github.com/fumin/shannon/fault"
	"github.com/pkg/errors"
)

var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] inputFile outputFile\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(fault.Argument.ExitCode())
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		log.Printf("%+v", err)
		os.Exit(fault.KindOf(err).ExitCode())
	}
}

func run(input, output string) error {
	start := time.Now()
	res, err := shannon.DecodeFile(input, output)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if *verbose {
		log.Printf("decoded %s in %v: %d bit blocks, %d dictionary entries, %d -> %d bits",
			input, time.Since(start), res.Header.BlockLength, res.Header.DictionarySize, res.InputBits, res.OutputBits)
	}
	return nil
}
