// Package probe assembles probe sequences from resolved coordinates:
// statement in, named nucleotide sequence out.
package probe

import (
	"github.com/bcgsc/probegen/internal/annotation"
)

// GeneLookup finds annotation rows by gene symbol. Both the in-memory
// table and the DuckDB store satisfy it.
type GeneLookup interface {
	LookupGene(name string) ([]*annotation.Row, error)
}

// Extractor slices nucleotide sequence out of a reference genome.
// Coordinates are 0-based half-open, the convention of .2bit readers;
// mendelics/twobit's Service satisfies this interface directly.
type Extractor interface {
	GenomicInterval(chr string, start, end int) (string, error)
}
