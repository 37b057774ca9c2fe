package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumin/shannon"
	"github.com/fumin/shannon/fault"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	encoded := filepath.Join(dir, "gettysburg.shc")
	if _, err := shannon.EncodeFile("../testdata/gettysburg.txt", encoded, 7); err != nil {
		t.Fatalf("%+v", err)
	}

	decoded := filepath.Join(dir, "gettysburg.txt")
	if err := run(encoded, decoded); err != nil {
		t.Fatalf("%+v", err)
	}
	got, err := os.ReadFile(decoded)
	if err != nil {
		t.Fatalf("%v", err)
	}
	want, err := os.ReadFile("../testdata/gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%d bytes decoded, want %d", len(got), len(want))
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.shc")
	if err := os.WriteFile(corrupt, []byte{0x77, 0x00}, 0644); err != nil {
		t.Fatalf("%v", err)
	}

	tests := []struct {
		input string
		code  int
	}{
		{filepath.Join(dir, "missing.shc"), 2},
		{corrupt, 3},
	}
	for _, test := range tests {
		err := run(test.input, filepath.Join(dir, "out"))
		if c := fault.KindOf(err).ExitCode(); err == nil || c != test.code {
			t.Errorf("%s: exit code %d, %v", test.input, c, err)
		}
	}
}
