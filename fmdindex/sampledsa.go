package fmdindex

import "github.com/exascience/fmdindex/textposition"

// SampledSA is a suffix array sampled every SampleRate positions,
// mapping a BWT index to a TextPosition in O(SampleRate) LF-steps.
// Samples are keyed by BWT index, so unpacking walks
// GetLF backwards from i until a sampled index is reached and then
// adjusts the stored position forward by the number of steps taken.
type SampledSA struct {
	bwt        *BWT
	sampleRate uint64
	// samples maps each sampled BWT index to its TextPosition; a BWT
	// index is sampled exactly when it is a key of this map.
	samples map[uint64]textposition.TextPosition
}

// NewSampledSA samples the suffix array at the given rate. samples
// supplies the TextPosition for each sampled BWT index (an external
// suffix-sort tool computes these; index construction is out of scope
// for this package); unsampled positions are recovered at query time by
// walking LF. Locate relies on every LF walk reaching a sampled index
// within sampleRate steps, which holds when every text offset that is a
// multiple of sampleRate is sampled.
func NewSampledSA(bwt *BWT, sampleRate uint64, samples map[uint64]textposition.TextPosition) *SampledSA {
	if sampleRate == 0 {
		sampleRate = 1
	}
	return &SampledSA{bwt: bwt, sampleRate: sampleRate, samples: samples}
}

// SampleRate returns the configured sampling interval.
func (s *SampledSA) SampleRate() uint64 {
	return s.sampleRate
}

// Samples returns the underlying BWT-index-to-TextPosition sample map,
// for package fmdio to serialize back to a .ssa file. The returned map
// is never mutated after construction, so it is safe to share.
func (s *SampledSA) Samples() map[uint64]textposition.TextPosition {
	return s.samples
}

// Locate maps a BWT index to the TextPosition it names, walking LF
// backwards at most SampleRate times until a sampled index is found.
func (s *SampledSA) Locate(i uint64) textposition.TextPosition {
	steps := uint64(0)
	for {
		if pos, ok := s.samples[i]; ok {
			return textposition.TextPosition{Text: pos.Text, Offset: pos.Offset + steps}
		}
		i = s.bwt.GetLF(i)
		steps++
		if steps > s.sampleRate {
			// A correctly sampled SA always hits a sample within
			// sampleRate steps; this bounds runaway loops against a
			// malformed .ssa file instead of spinning forever.
			panic(&InconsistentIndex{Reason: "sampled suffix array has no sample within one sample period"})
		}
	}
}
