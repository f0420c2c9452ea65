// Package annotation provides gene-model rows loaded from UCSC-style
// annotation tables, with exon and intron access in transcription order.
package annotation

import "fmt"

// Exon is a single exon or intron interval. Bounds follow the UCSC
// half-open-left convention: the feature covers (Start, End] in 1-based
// arithmetic, so its first base is Start+1 and its last base is End.
type Exon struct {
	Start int
	End   int
}

// Row is one transcript row of a gene annotation table. Exon boundary
// lists are stored left-to-right along the plus strand regardless of
// the gene's orientation, exactly as UCSC tables give them.
type Row struct {
	Name       string // transcript name, e.g. NM_000546
	GeneName   string // gene symbol, e.g. TP53
	Chrom      string
	Strand     string // "+" or "-"
	TxStart    int
	TxEnd      int
	CDSStart   int
	CDSEnd     int
	ExonStarts []int
	ExonEnds   []int
}

// IsPlusStrand reports whether the row is on the forward strand.
func (r *Row) IsPlusStrand() bool {
	return r.Strand == "+"
}

// Exons returns the row's exons in transcription order: left-to-right
// for a plus-strand gene, right-to-left for a minus-strand gene. Exon 1
// is always the first exon transcribed.
func (r *Row) Exons() []Exon {
	exons := make([]Exon, len(r.ExonStarts))
	for i := range r.ExonStarts {
		exons[i] = Exon{Start: r.ExonStarts[i], End: r.ExonEnds[i]}
	}
	if !r.IsPlusStrand() {
		reverse(exons)
	}
	return exons
}

// Introns returns the gaps between consecutive exons, in transcription
// order and using the same half-open-left convention as Exons.
func (r *Row) Introns() []Exon {
	if len(r.ExonStarts) < 2 {
		return nil
	}
	introns := make([]Exon, len(r.ExonStarts)-1)
	for i := range introns {
		introns[i] = Exon{Start: r.ExonEnds[i], End: r.ExonStarts[i+1]}
	}
	if !r.IsPlusStrand() {
		reverse(introns)
	}
	return introns
}

// ExonCount returns the number of exons in the row.
func (r *Row) ExonCount() int {
	return len(r.ExonStarts)
}

// IntronCount returns the number of introns in the row.
func (r *Row) IntronCount() int {
	if len(r.ExonStarts) < 2 {
		return 0
	}
	return len(r.ExonStarts) - 1
}

// NucleotideIndex returns the genomic coordinate (1-based) of the n-th
// base of the row's coding sequence, counted in transcription order.
// Returns an *OutOfRangeError if n falls outside the coding sequence.
func (r *Row) NucleotideIndex(n int) (int, error) {
	if n < 1 {
		return 0, &OutOfRangeError{Base: n, Name: r.Name}
	}
	remaining := n
	if r.IsPlusStrand() {
		for i := 0; i < len(r.ExonStarts); i++ {
			start, end := codingBounds(r.ExonStarts[i], r.ExonEnds[i], r.CDSStart, r.CDSEnd)
			if end <= start {
				continue
			}
			if remaining <= end-start {
				return start + remaining, nil
			}
			remaining -= end - start
		}
	} else {
		for i := len(r.ExonStarts) - 1; i >= 0; i-- {
			start, end := codingBounds(r.ExonStarts[i], r.ExonEnds[i], r.CDSStart, r.CDSEnd)
			if end <= start {
				continue
			}
			if remaining <= end-start {
				return end - remaining + 1, nil
			}
			remaining -= end - start
		}
	}
	return 0, &OutOfRangeError{Base: n, Name: r.Name}
}

// codingBounds clips an exon to the coding region.
func codingBounds(exonStart, exonEnd, cdsStart, cdsEnd int) (int, int) {
	if exonStart < cdsStart {
		exonStart = cdsStart
	}
	if exonEnd > cdsEnd {
		exonEnd = cdsEnd
	}
	return exonStart, exonEnd
}

func reverse(features []Exon) {
	for i, j := 0, len(features)-1; i < j; i, j = i+1, j-1 {
		features[i], features[j] = features[j], features[i]
	}
}

// OutOfRangeError is returned when a coding-sequence base index falls
// outside the coding region of a transcript.
type OutOfRangeError struct {
	Base int
	Name string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("base %d is outside the coding sequence of transcript %q", e.Base, e.Name)
}
