package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumin/shannon/fault"
)

func TestDistanceMatrix(t *testing.T) {
	dir := t.TempDir()
	gettys, err := os.ReadFile("../testdata/gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	rng := rand.New(rand.NewSource(0))
	noise := make([]byte, len(gettys))
	rng.Read(noise)
	files := map[string][]byte{
		"a.txt": gettys,
		"b.txt": append(bytes.ToUpper(gettys[:200]), gettys[200:]...),
		"c.bin": noise,
	}
	for name, b := range files {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
			t.Fatalf("%v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("%v", err)
	}

	data, err := listFiles(dir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(data) != 3 {
		t.Fatalf("%v", data)
	}

	for _, intelligence := range []string{"shannon", "gzip"} {
		c, err := newCompressor(intelligence, 8, 16)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		mat, err := distanceMatrix(c, data)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if len(mat) != 3 {
			t.Fatalf("%v", mat)
		}
		// Pairs in order a-b, a-c, b-c.
		if mat[0] >= mat[1] {
			t.Errorf("%s: similar texts are farther apart than text and noise: %v", intelligence, mat)
		}
		if err := display(data, mat); err != nil {
			t.Errorf("%+v", err)
		}
	}
}

func TestComplexityCached(t *testing.T) {
	c, err := newCompressor("shannon", 8, 4)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	first, err := c.complexity("x", []byte("abracadabra"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// The cached size is returned without looking at the data.
	second, err := c.complexity("x", nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if first != second {
		t.Errorf("%f != %f", first, second)
	}
	if _, err := c.complexity("y", nil); !fault.Is(err, fault.Argument) {
		t.Errorf("%v", err)
	}
}

func TestCompressorRejects(t *testing.T) {
	if _, err := newCompressor("ctw", 8, 4); !fault.Is(err, fault.Argument) {
		t.Errorf("%v", err)
	}
	if _, err := newCompressor("gzip", 8, 0); !fault.Is(err, fault.Argument) {
		t.Errorf("%v", err)
	}
	c, err := newCompressor("gzip", 8, 4)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := distanceMatrix(c, []string{"only"}); !fault.Is(err, fault.Argument) {
		t.Errorf("%v", err)
	}
	if _, err := listFiles(filepath.Join(t.TempDir(), "missing")); !fault.Is(err, fault.IO) {
		t.Errorf("%v", err)
	}
}
