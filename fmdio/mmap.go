package fmdio

import (
	"log"
	"os"

	"github.com/exascience/fmdindex/internal"
	"golang.org/x/sys/unix"
)

// MappedFile is a read-only mmap view of one on-disk index component
// (.bwt, .ssa, or .lcp), following the same load-once,
// unmap-on-close shape as elprep's MappedFasta: the OS pages the file
// in on demand instead of this process copying it onto its own heap up
// front.
type MappedFile struct {
	data []byte
	file *os.File
}

// MemoryMap opens filename and maps its entire contents read-only.
func MemoryMap(filename string) *MappedFile {
	file := internal.FileOpen(filename)
	stat, err := file.Stat()
	if err != nil {
		internal.Close(file)
		log.Panic(ioError(filename, err))
	}
	size := stat.Size()
	if size == 0 {
		return &MappedFile{file: file}
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		internal.Close(file)
		log.Panic(ioError(filename, err))
	}
	return &MappedFile{data: data, file: file}
}

// Bytes returns the mapped file's contents.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

// Close unmaps the file and closes its descriptor.
func (m *MappedFile) Close() {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			log.Panic(err)
		}
		m.data = nil
	}
	internal.Close(m.file)
}
