package probe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bcgsc/probegen/internal/resolve"
)

// fastaLineWidth is the sequence wrap column for FASTA output.
const fastaLineWidth = 60

// FastaWriter writes named probe sequences in FASTA format.
type FastaWriter struct {
	w *bufio.Writer
}

// NewFastaWriter creates a FASTA writer over w.
func NewFastaWriter(w io.Writer) *FastaWriter {
	return &FastaWriter{w: bufio.NewWriter(w)}
}

// Write writes one named sequence, wrapped at 60 columns.
func (fw *FastaWriter) Write(name, seq string) error {
	if _, err := fmt.Fprintf(fw.w, ">%s\n", name); err != nil {
		return err
	}
	for len(seq) > fastaLineWidth {
		if _, err := fmt.Fprintln(fw.w, seq[:fastaLineWidth]); err != nil {
			return err
		}
		seq = seq[fastaLineWidth:]
	}
	_, err := fmt.Fprintln(fw.w, seq)
	return err
}

// Flush flushes any buffered output.
func (fw *FastaWriter) Flush() error {
	return fw.w.Flush()
}

// BedWriter writes resolved probe coordinates in BED format, one line
// per condensed range.
type BedWriter struct {
	w *bufio.Writer
}

// NewBedWriter creates a BED writer over w.
func NewBedWriter(w io.Writer) *BedWriter {
	return &BedWriter{w: bufio.NewWriter(w)}
}

// Write writes the ranges of one coordinate record under the given
// name. Record.Ranges already normalizes both sides to half-open-left
// bounds, which is the BED coordinate convention.
func (bw *BedWriter) Write(name string, record *resolve.Record) error {
	for _, r := range record.Ranges() {
		if _, err := fmt.Fprintf(bw.w, "%s\t%d\t%d\t%s\n", r.Chromosome, r.Start, r.End, name); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (bw *BedWriter) Flush() error {
	return bw.w.Flush()
}
