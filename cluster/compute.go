// Command cluster prints the normalized compression distance between every pair of files in a directory.
package main

import (
	"bytes"
	"compress/gzip"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumin/shannon"
	"github.com/fumin/shannon/fault"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

var (
	blockLength      = flag.Int("b", 8, "block length in bits for the shannon coder")
	intelligenceType = flag.String("i", "shannon", "intelligence type, shannon or gzip")
	dataDir          = flag.String("d", "testdata", "data directory")
	cacheSize        = flag.Int("cache", 128, "number of compressed sizes to remember")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(*intelligenceType, *dataDir); err != nil {
		log.Printf("%+v", err)
		os.Exit(fault.KindOf(err).ExitCode())
	}
}

func run(intelligence, dir string) error {
	data, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	c, err := newCompressor(intelligence, *blockLength, *cacheSize)
	if err != nil {
		return errors.Wrap(err, "")
	}
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
		buf.WriteString(strconv.Quote(strings.TrimSuffix(name, filepath.Ext(name))))
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

// A compressor measures the complexity of named data as its compressed size in bytes.
type compressor struct {
	intelligence string
	blockLength  int
	cache        *lru.Cache[string, float64]
}

func newCompressor(intelligence string, blockLength, cacheSize int) (*compressor, error) {
	switch intelligence {
	case "shannon", "gzip":
	default:
		return nil, fault.New(fault.Argument, "unknown intelligence type %q", intelligence)
	}
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, fault.Wrap(fault.Argument, err, "cache size %d", cacheSize)
	}
	return &compressor{intelligence: intelligence, blockLength: blockLength, cache: cache}, nil
}

func (c *compressor) complexity(name string, b []byte) (float64, error) {
	if size, ok := c.cache.Get(name); ok {
		return size, nil
	}

	var size float64
	var err error
	switch c.intelligence {
	case "shannon":
		size, err = complexityShannon(b, c.blockLength)
	default:
		size, err = complexityGzip(b)
	}
	if err != nil {
		return -1, errors.Wrap(err, name)
	}

	c.cache.Add(name, size)
	return size, nil
}

func complexityShannon(b []byte, blockLength int) (float64, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := shannon.Encode(buf, bytes.NewReader(b), blockLength); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return float64(buf.Len()), nil
}

func complexityGzip(b []byte) (float64, error) {
	buf := bytes.NewBuffer(nil)
	zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return -1, fault.Wrap(fault.Internal, err, "")
	}
	if _, err := zw.Write(b); err != nil {
		return -1, fault.Wrap(fault.Internal, err, "")
	}
	if err := zw.Close(); err != nil {
		return -1, fault.Wrap(fault.Internal, err, "")
	}
	return float64(buf.Len()), nil
}

// distance is the normalized compression distance (C(xy) - min(C(x), C(y))) / max(C(x), C(y)).
func distance(c *compressor, x, y string) (float64, error) {
	bx, err := readFile(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	by, err := readFile(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	xy := make([]byte, 0, len(bx)+len(by))
	xy = append(append(xy, bx...), by...)

	kxy, err := c.complexity(x+"\x00"+y, xy)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	kx, err := c.complexity(x, bx)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := c.complexity(y, by)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	dist := (kxy - min(kx, ky)) / max(kx, ky)
	return dist, nil
}

func distanceMatrix(c *compressor, data []string) ([]float64, error) {
	n := len(data)
	if n < 2 {
		return nil, fault.New(fault.Argument, "need at least 2 files, got %d", n)
	}
	mat := make([]float64, 0, n*(n-1)/2)
	for i, dx := range data[:n-1] {
		for _, dy := range data[i+1:] {
			dist, err := distance(c, dx, dy)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
			log.Printf("%q-%q: %f", dx, dy, dist)
		}
	}
	return mat, nil
}

func readFile(fpath string) ([]byte, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	return b, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	data := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data = append(data, filepath.Join(dir, e.Name()))
	}
	return data, nil
}
