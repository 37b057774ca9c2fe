package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fumin/shannon"
	"github.com/fumin/shannon/fault"
	"github.com/pkg/errors"
)

var (
	verbose = flag.Bool("verbose", false, "verbosity")
	verify  = flag.Bool("verify", false, "decode the output and check that it reproduces the input")
	table   = flag.String("table", "", "write the code table to this file, as JSON if the name ends in .json")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] inputFile outputFile blockLength\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(fault.Argument.ExitCode())
	}
	blockLength, err := strconv.Atoi(flag.Arg(2))
	if err != nil {
		log.Printf("block length %q is not an integer", flag.Arg(2))
		os.Exit(fault.Argument.ExitCode())
	}

	if err := run(flag.Arg(0), flag.Arg(1), blockLength); err != nil {
		log.Printf("%+v", err)
		os.Exit(fault.KindOf(err).ExitCode())
	}
}

func run(input, output string, blockLength int) error {
	start := time.Now()
	res, err := shannon.EncodeFile(input, output, blockLength)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if *verbose {
		log.Printf("encoded %s in %v: %d blocks of %d bits, %d dictionary entries, %d -> %d bits",
			input, time.Since(start), res.Code.TotalBlocks, blockLength, res.Header.DictionarySize, res.InputBits, res.OutputBits)
	}

	if *table != "" {
		if err := writeTable(*table, res); err != nil {
			return errors.Wrap(err, "")
		}
	}

	if *verify {
		start = time.Now()
		if err := shannon.Verify(input, output); err != nil {
			return errors.Wrap(err, "")
		}
		if *verbose {
			log.Printf("verified %s in %v", output, time.Since(start))
		}
	}
	return nil
}

func writeTable(fpath string, res *shannon.Result) error {
	f, err := os.Create(fpath)
	if err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	defer f.Close()
	if strings.HasSuffix(fpath, ".json") {
		err = shannon.WriteTableJSON(f, res)
	} else {
		err = shannon.WriteTable(f, res.Code)
	}
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	return nil
}
