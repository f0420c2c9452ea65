// Package sequence provides nucleotide string helpers and the Range
// value type describing an extracted genomic interval.
package sequence

import "fmt"

// Range is an interval of base pairs on a single chromosome. The
// coordinate convention (1-based closed or half-open) is carried by the
// caller, not by the type; Range only knows about adjacency and merging.
type Range struct {
	Chromosome string
	Start      int
	End        int
}

// NewRange returns a Range over the given chromosome and bounds.
func NewRange(chromosome string, start, end int) Range {
	return Range{Chromosome: chromosome, Start: start, End: end}
}

// Adjacent reports whether r and other share a boundary on the same
// chromosome, in either order. Sharing a boundary means abutting under
// half-open bounds; callers holding closed ranges convert them first.
func (r Range) Adjacent(other Range) bool {
	if r.Chromosome != other.Chromosome {
		return false
	}
	return r.End == other.Start || other.End == r.Start
}

// Concat merges two adjacent ranges into one. The ranges may be given
// in either order. Returns an error if the ranges are not adjacent.
func (r Range) Concat(other Range) (Range, error) {
	if !r.Adjacent(other) {
		return Range{}, fmt.Errorf("cannot concatenate non-adjacent ranges %s and %s", r, other)
	}
	merged := Range{Chromosome: r.Chromosome, Start: r.Start, End: r.End}
	if other.Start < merged.Start {
		merged.Start = other.Start
	}
	if other.End > merged.End {
		merged.End = other.End
	}
	return merged, nil
}

// Condense merges runs of adjacent ranges, preserving input order.
// Non-adjacent ranges are passed through unchanged.
func Condense(ranges ...Range) []Range {
	var out []Range
	for _, r := range ranges {
		if n := len(out); n > 0 && out[n-1].Adjacent(r) {
			merged, _ := out[n-1].Concat(r)
			out[n-1] = merged
			continue
		}
		out = append(out, r)
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chromosome, r.Start, r.End)
}
