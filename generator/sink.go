package generator

import (
	"os"
	"path/filepath"
)

// A Sink persists artifacts.
type Sink interface {
	// EnsureDir creates dir if it does not exist. It never removes
	// anything.
	EnsureDir(dir string) error

	// WriteFile replaces the file at path with data. Either the whole
	// content is written or the file is left untouched.
	WriteFile(path string, data []byte) error
}

// An ArtifactRecorder is told about every artifact a run tries to write.
// It must be safe for concurrent use.
type ArtifactRecorder interface {
	RecordArtifact(module, filename string, content []byte, err error)
}

type fileSink struct{}

// NewFileSink returns a Sink that writes to the local filesystem.
func NewFileSink() Sink {
	return fileSink{}
}

func (fileSink) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteFile writes a temporary file next to path and renames it over path.
func (fileSink) WriteFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}

	tmp := f.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmp, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
