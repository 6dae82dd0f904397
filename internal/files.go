package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// FileOpen is os.Open with a panic in place of an error. Used (through
// fmdio.MemoryMap) by the index loaders for the basename.bwt/.ssa/.lcp
// files: a missing or unreadable binary index file is treated as an
// operator/programmer error, not a recoverable runtime condition.
func FileOpen(filename string) *os.File {
	f, err := os.Open(filename)
	if err != nil {
		log.Panic(err)
	}
	return f
}

// FileCreate is os.Create with a panic in place of an error.
func FileCreate(filename string) *os.File {
	f, err := os.Create(filename)
	if err != nil {
		log.Panic(err)
	}
	return f
}

// Close closes c, panicking instead of returning an error. Intended for
// use in defer statements paired with FileOpen/FileCreate.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Panic(err)
	}
}

// Write writes data to w, panicking if the write is short or errors.
func Write(w io.Writer, data []byte) int {
	n, err := w.Write(data)
	if err != nil {
		log.Panic(err)
	}
	if n != len(data) {
		log.Panicf("short write: wrote %d of %d bytes", n, len(data))
	}
	return n
}

// WriteString writes s to w, panicking if the write is short or errors.
func WriteString(w io.Writer, s string) int {
	n, err := io.WriteString(w, s)
	if err != nil {
		log.Panic(err)
	}
	if n != len(s) {
		log.Panicf("short write: wrote %d of %d bytes", n, len(s))
	}
	return n
}

func Directory(file string) (files []string, err error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Base(file)}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		nerr := f.Close()
		if err == nil {
			err = nerr
		}
	}()
	return f.Readdirnames(0)
}

func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}
