package sharedtest

import (
	"log"
	"os"
)

// WithTempFileContaining creates a temporary file with the given contents, passes its name to
// the given function, then ensures that the file is deleted.
func WithTempFileContaining(data []byte, action func(filename string)) {
	file, err := os.CreateTemp("", "aerodata-test")
	if err != nil {
		log.Fatalf("Can't create temp file: %s", err)
	}
	if _, err := file.Write(data); err != nil {
		log.Fatalf("Can't write temp file: %s", err)
	}
	_ = file.Close()
	defer (func() {
		_ = os.Remove(file.Name())
	})()
	action(file.Name())
}

// WithTempDir creates a temporary directory, passes its path to the given function, then
// removes it along with anything written under it.
func WithTempDir(action func(path string)) {
	dir, err := os.MkdirTemp("", "aerodata-test")
	if err != nil {
		log.Fatalf("Can't create temp directory: %s", err)
	}
	defer (func() {
		_ = os.RemoveAll(dir)
	})()
	action(dir)
}
