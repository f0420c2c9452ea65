// Package resolve turns concrete probe specifications and annotation
// rows into exact chromosomal coordinate ranges.
package resolve

import "github.com/bcgsc/probegen/internal/sequence"

// Record is the result of resolving one probe specification: one
// chromosome, base-pair range, and reverse-complement flag per side of
// the fusion.
//
// Ranges are 1-based and inclusive when the specification gave a
// concrete bases count. When the bases field was globbed the range is
// the feature's native half-open-left bounds, unchanged, and the side's
// HalfOpen flag is set; callers that slice sequence or emit coordinates
// go through the flag rather than guessing the convention.
type Record struct {
	Chromosome1 string
	Start1      int
	End1        int
	HalfOpen1   bool
	Chromosome2 string
	Start2      int
	End2        int
	HalfOpen2   bool
	RCSide1     bool
	RCSide2     bool
}

// Ranges returns the record's two sides as half-open-left sequence
// ranges, with abutting ranges merged. Closed sides are converted to
// half-open bounds first, so a side ending at base n merges with a side
// starting at base n+1.
func (r *Record) Ranges() []sequence.Range {
	return sequence.Condense(r.sideRange(1), r.sideRange(2))
}

func (r *Record) sideRange(side int) sequence.Range {
	chrom, start, end, halfOpen := r.Chromosome1, r.Start1, r.End1, r.HalfOpen1
	if side == 2 {
		chrom, start, end, halfOpen = r.Chromosome2, r.Start2, r.End2, r.HalfOpen2
	}
	if !halfOpen {
		start--
	}
	return sequence.NewRange(chrom, start, end)
}
