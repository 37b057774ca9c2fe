package shannon

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/model"
)

// EncodeFile compresses the file at inputPath into a container at outputPath.
// The container is written to a temporary file next to outputPath and renamed into place on success,
// so a failed call never leaves a partial container behind.
func EncodeFile(inputPath, outputPath string, blockLength int) (*Result, error) {
	if err := model.CheckBlockLength(blockLength); err != nil {
		return nil, err
	}
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	defer in.Close()

	var res *Result
	err = writeFile(outputPath, func(w io.Writer) error {
		var err error
		res, err = Encode(w, in, blockLength)
		return err
	})
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "encode %s", inputPath)
	}
	return res, nil
}

// DecodeFile decompresses the container at inputPath into outputPath, with the same
// all or nothing behavior as EncodeFile.
func DecodeFile(inputPath, outputPath string) (*Result, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	defer in.Close()

	var res *Result
	err = writeFile(outputPath, func(w io.Writer) error {
		var err error
		res, err = Decode(w, in)
		return err
	})
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "decode %s", inputPath)
	}
	return res, nil
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = fn(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	return nil
}

// Verify decodes the container at containerPath and checks that it reproduces the file at inputPath.
func Verify(inputPath, containerPath string) error {
	want, err := digestFile(inputPath)
	if err != nil {
		return err
	}
	c, err := os.Open(containerPath)
	if err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	defer c.Close()

	d := xxhash.New()
	if _, err := Decode(d, c); err != nil {
		return fault.Wrap(fault.Format, err, "verify %s", containerPath)
	}
	if got := d.Sum64(); got != want {
		return fault.New(fault.Format, "%s decodes to digest %016x, %s has %016x", containerPath, got, inputPath, want)
	}
	return nil
}

func digestFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fault.Wrap(fault.IO, err, "")
	}
	defer f.Close()
	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return 0, fault.Wrap(fault.IO, err, "")
	}
	return d.Sum64(), nil
}
