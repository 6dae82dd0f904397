// Package fmdio reads and writes the on-disk index layout: a set of
// files sharing a common basename, each holding
// one piece of an FMDIndex. Index construction itself (the suffix sort
// that produces the BWT, sampled SA, and LCP values) is out of scope
// -- an external builder is assumed to have produced
// these files already; Save exists for round-tripping an in-memory
// index built by that external collaborator, or by tests.
package fmdio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/internal"
	"github.com/exascience/fmdindex/textposition"
	"github.com/exascience/fmdindex/utils"
)

func ioError(path string, err error) *fmdindex.IOError {
	return &fmdindex.IOError{Path: path, Err: err}
}

// Load reads every component file sharing basename and assembles a
// query-ready FMDIndex.
func Load(basename string) (*fmdindex.FMDIndex, error) {
	bwt, err := loadBWT(basename + ".bwt")
	if err != nil {
		return nil, err
	}
	sa, err := loadSSA(basename+".ssa", bwt)
	if err != nil {
		return nil, err
	}
	lcp, err := loadLCP(basename + ".lcp")
	if err != nil {
		return nil, err
	}
	contigs, err := loadContigs(basename + ".contigs")
	if err != nil {
		return nil, err
	}
	masks, err := loadMasks(basename + ".msk")
	if err != nil {
		return nil, err
	}
	numGenomes := 0
	endIndices := make([]uint64, len(contigs))
	for c, ctg := range contigs {
		endIndices[c] = 2 * uint64(c)
		if ctg.GenomeID+1 > numGenomes {
			numGenomes = ctg.GenomeID + 1
		}
	}
	if numGenomes != len(masks) {
		return nil, &fmdindex.InconsistentIndex{
			Reason: fmt.Sprintf("%d genomes referenced by contigs, but %s holds %d masks", numGenomes, basename+".msk", len(masks)),
		}
	}
	table := fmdindex.NewContigTable(contigs, masks, endIndices)
	log.Printf("fmdio: loaded index %q: %d contigs, %d genomes, BWT length %d", basename, len(contigs), numGenomes, bwt.Len())
	return fmdindex.NewFMDIndex(bwt, sa, lcp, table), nil
}

// Save writes every component file sharing basename from an
// already-assembled in-memory index, the inverse of Load.
func Save(basename string, idx *fmdindex.FMDIndex) error {
	table := idx.Contigs()
	contigs := make([]fmdindex.Contig, table.NumContigs())
	for c := range contigs {
		contigs[c] = table.Contig(c)
	}
	masks := make([]*bitvector.BitVector, table.NumGenomes())
	for g := range masks {
		masks[g] = table.Mask(g)
	}

	if err := saveBWT(basename+".bwt", idx.BWT()); err != nil {
		return err
	}
	if err := saveSSA(basename+".ssa", idx.SA()); err != nil {
		return err
	}
	if err := saveLCP(basename+".lcp", idx.LCP()); err != nil {
		return err
	}
	if err := saveContigs(basename+".contigs", contigs); err != nil {
		return err
	}
	if err := saveMasks(basename+".msk", masks); err != nil {
		return err
	}
	return saveChromSizes(basename+".chrom.sizes", contigs)
}

// --- .bwt: run-length encoded over {$,A,C,G,T} ---
//
// Layout: an 8-byte total-length header, followed by runs of
// (1-byte symbol code, uvarint run length) until the cumulative run
// length reaches the header's total.

func loadBWT(path string) (bwt *fmdindex.BWT, err error) {
	m := MemoryMap(path)
	defer m.Close()
	data := m.Bytes()
	if len(data) < 8 {
		return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated .bwt header")}
	}
	total := binary.NativeEndian.Uint64(data[:8])
	symbols := make([]fmdindex.Symbol, 0, total)
	pos := 8
	for uint64(len(symbols)) < total {
		if pos >= len(data) {
			return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated run stream")}
		}
		code := data[pos]
		pos++
		runLen, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("malformed run length")}
		}
		pos += n
		sym := fmdindex.Symbol(code)
		for i := uint64(0); i < runLen; i++ {
			symbols = append(symbols, sym)
		}
	}
	if uint64(len(symbols)) != total {
		return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s: run lengths sum to %d, header declares %d", path, len(symbols), total)}
	}
	return fmdindex.NewBWT(symbols), nil
}

func saveBWT(path string, bwt *fmdindex.BWT) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)

	var header [8]byte
	binary.NativeEndian.PutUint64(header[:], bwt.Len())
	internal.Write(w, header[:])

	n := bwt.Len()
	if n == 0 {
		return w.Flush()
	}

	// Runs are encoded into a pooled buffer, symbol immediately followed
	// by its uvarint length, and flushed to w in one internal.Write per
	// run rather than two.
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	runSym := bwt.At(0)
	runLen := uint64(1)
	flushRun := func() {
		buf = append(buf[:0], byte(runSym))
		buf = binary.AppendUvarint(buf, runLen)
		internal.Write(w, buf)
	}
	for i := uint64(1); i < n; i++ {
		s := bwt.At(i)
		if s == runSym {
			runLen++
			continue
		}
		flushRun()
		runSym, runLen = s, 1
	}
	flushRun()
	return w.Flush()
}

// --- .ssa: sampled suffix array ---
//
// Layout: u64 sampleRate, u64 sampleCount, then sampleCount entries of
// (u64 bwtIndex, u64 text, u64 offset), in increasing bwtIndex order.

func loadSSA(path string, bwt *fmdindex.BWT) (*fmdindex.SampledSA, error) {
	m := MemoryMap(path)
	defer m.Close()
	data := m.Bytes()
	if len(data) < 16 {
		return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated .ssa header")}
	}
	sampleRate := binary.NativeEndian.Uint64(data[0:8])
	count := binary.NativeEndian.Uint64(data[8:16])
	want := 16 + count*24
	if uint64(len(data)) < want {
		return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated .ssa body: want %d bytes, have %d", want, len(data))}
	}
	samples := make(map[uint64]textposition.TextPosition, count)
	pos := 16
	for i := uint64(0); i < count; i++ {
		bwtIndex := binary.NativeEndian.Uint64(data[pos : pos+8])
		text := binary.NativeEndian.Uint64(data[pos+8 : pos+16])
		offset := binary.NativeEndian.Uint64(data[pos+16 : pos+24])
		pos += 24
		samples[bwtIndex] = textposition.TextPosition{Text: text, Offset: offset}
	}
	return fmdindex.NewSampledSA(bwt, sampleRate, samples), nil
}

func saveSSA(path string, sa *fmdindex.SampledSA) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)

	samples := sa.Samples()
	indices := make([]uint64, 0, len(samples))
	for idx := range samples {
		indices = append(indices, idx)
	}
	sortUint64s(indices)

	var header [16]byte
	binary.NativeEndian.PutUint64(header[0:8], sa.SampleRate())
	binary.NativeEndian.PutUint64(header[8:16], uint64(len(indices)))
	internal.Write(w, header[:])

	var entry [24]byte
	for _, idx := range indices {
		pos := samples[idx]
		binary.NativeEndian.PutUint64(entry[0:8], idx)
		binary.NativeEndian.PutUint64(entry[8:16], pos.Text)
		binary.NativeEndian.PutUint64(entry[16:24], pos.Offset)
		internal.Write(w, entry[:])
	}
	return w.Flush()
}

func sortUint64s(s []uint64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// --- .lcp: three equal-length 64-bit word arrays ---
//
// Layout: u64 length, then length words of values, length words of
// PSV, length words of NSV, all platform-endian.

func loadLCP(path string) (*fmdindex.LCPArray, error) {
	m := MemoryMap(path)
	defer m.Close()
	data := m.Bytes()
	if len(data) < 8 {
		return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated .lcp header")}
	}
	length := binary.NativeEndian.Uint64(data[:8])
	want := 8 + 3*length*8
	if uint64(len(data)) < want {
		return nil, &fmdindex.IOError{Path: path, Err: fmt.Errorf("truncated .lcp body: want %d bytes, have %d", want, len(data))}
	}
	readArray := func(offset uint64) []uint64 {
		out := make([]uint64, length)
		for i := uint64(0); i < length; i++ {
			out[i] = binary.NativeEndian.Uint64(data[offset+i*8 : offset+i*8+8])
		}
		return out
	}
	values := readArray(8)
	psv := readArray(8 + length*8)
	nsv := readArray(8 + 2*length*8)
	return fmdindex.LoadLCPArray(values, psv, nsv), nil
}

func saveLCP(path string, lcp *fmdindex.LCPArray) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)

	values, psv, nsv := lcp.RawArrays()
	var header [8]byte
	binary.NativeEndian.PutUint64(header[:], uint64(len(values)))
	internal.Write(w, header[:])

	writeArray := func(arr []uint64) {
		var buf [8]byte
		for _, v := range arr {
			binary.NativeEndian.PutUint64(buf[:], v)
			internal.Write(w, buf[:])
		}
	}
	writeArray(values)
	writeArray(psv)
	writeArray(nsv)
	return w.Flush()
}

// --- .contigs: tab-separated text, one line per contig ---
//
// name \t start \t length \t genome_id. endIndex is not stored: under
// the canonical generalized-suffix-array tie-break (ties among the
// per-text terminator suffixes break by ascending text id), contig c's
// forward-text terminator always lands at BWT rank 2c, so it is
// derived arithmetically by the caller (Load), not read here.

func loadContigs(path string) ([]fmdindex.Contig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer internal.Close(f)

	var contigs []fmdindex.Contig
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s:%d: expected 4 tab-separated fields, got %d", path, lineNum, len(fields))}
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s:%d: invalid start: %v", path, lineNum, err)}
		}
		length, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s:%d: invalid length: %v", path, lineNum, err)}
		}
		genomeID, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s:%d: invalid genome_id: %v", path, lineNum, err)}
		}
		contigs = append(contigs, fmdindex.Contig{
			Name:          utils.Intern(fields[0]),
			ScaffoldStart: start,
			Length:        length,
			GenomeID:      genomeID,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, ioError(path, err)
	}
	return contigs, nil
}

func saveContigs(path string, contigs []fmdindex.Contig) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)
	for _, c := range contigs {
		internal.WriteString(w, fmt.Sprintf("%s\t%d\t%d\t%d\n", *c.Name, c.ScaffoldStart, c.Length, c.GenomeID))
	}
	return w.Flush()
}

// --- .msk: concatenated, self-delimited bit-vectors ---
//
// Each vector: u64 universe, u64 runCount, then runCount entries of
// (u64 start, u64 length); reading exactly that many bytes before
// moving to the next vector is what makes the stream self-delimited.

func loadMasks(path string) ([]*bitvector.BitVector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer internal.Close(f)

	r := bufio.NewReader(f)
	var masks []*bitvector.BitVector
	header := make([]byte, 16)
	for {
		n, err := readFull(r, header)
		if err == errEOFClean && n == 0 {
			break
		}
		if err != nil {
			return nil, ioError(path, err)
		}
		universe := binary.NativeEndian.Uint64(header[0:8])
		runCount := binary.NativeEndian.Uint64(header[8:16])
		builder := bitvector.NewBuilder()
		entry := make([]byte, 16)
		for i := uint64(0); i < runCount; i++ {
			if _, err := readFull(r, entry); err != nil {
				return nil, ioError(path, err)
			}
			start := binary.NativeEndian.Uint64(entry[0:8])
			length := binary.NativeEndian.Uint64(entry[8:16])
			builder.AddRun(start, length)
		}
		masks = append(masks, builder.Finish(universe))
	}
	return masks, nil
}

var errEOFClean = fmt.Errorf("fmdio: clean eof")

// readFull reads exactly len(buf) bytes, returning errEOFClean only
// when zero bytes were read before hitting end of file (a clean
// boundary between vectors, not a truncated one).
func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF && n == 0 {
		return 0, errEOFClean
	}
	return n, err
}

func saveMasks(path string, masks []*bitvector.BitVector) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)
	for _, mask := range masks {
		starts, lengths := mask.Runs()
		var header [16]byte
		binary.NativeEndian.PutUint64(header[0:8], mask.Len())
		binary.NativeEndian.PutUint64(header[8:16], uint64(len(starts)))
		internal.Write(w, header[:])
		var entry [16]byte
		for i := range starts {
			binary.NativeEndian.PutUint64(entry[0:8], starts[i])
			binary.NativeEndian.PutUint64(entry[8:16], lengths[i])
			internal.Write(w, entry[:])
		}
	}
	return w.Flush()
}

// --- .chrom.sizes: tab-separated name/length, for external tooling ---

func saveChromSizes(path string, contigs []fmdindex.Contig) error {
	f := internal.FileCreate(path)
	defer internal.Close(f)
	w := bufio.NewWriter(f)
	for _, c := range contigs {
		internal.WriteString(w, fmt.Sprintf("%s\t%d\n", *c.Name, c.Length))
	}
	return w.Flush()
}

// LoadChromSizes parses a .chrom.sizes file into a name-to-length map,
// for collaborators outside this module that only need contig lengths.
func LoadChromSizes(path string) (map[string]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer internal.Close(f)

	sizes := make(map[string]uint64)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s: expected 2 tab-separated fields, got %d", path, len(fields))}
		}
		length, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("%s: invalid length: %v", path, err)}
		}
		sizes[fields[0]] = length
	}
	if err := scanner.Err(); err != nil {
		return nil, ioError(path, err)
	}
	return sizes, nil
}
