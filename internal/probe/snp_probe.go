package probe

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/sequence"
	"github.com/bcgsc/probegen/internal/statement"
)

// snpStatementRe matches statements like "KRAS:c.35G>T/50", naming a
// single nucleotide change by its index in a gene's coding sequence and
// the probe length to generate around it.
var snpStatementRe = regexp.MustCompile(
	`^\s*([A-Za-z0-9_.-]+)\s*:\s*c\.\s*([0-9]+)\s*([ACGTacgt])\s*>\s*([ACGTacgt])\s*/\s*([0-9]+)\s*(--.*)?$`)

// SnpStatement is the parsed form of a gene SNP probe statement.
type SnpStatement struct {
	Gene      string
	Base      int // 1-based index into the coding sequence
	Reference string
	Mutation  string
	Bases     int // probe length
	Comment   string
}

// SnpProbe is one resolved SNP probe: a statement pinned to a specific
// transcript and genomic coordinate.
type SnpProbe struct {
	SnpStatement
	Transcript string
	Chromosome string
	Index      int // genomic coordinate of the mutated base, 1-based
}

// ParseSnpStatement parses a gene SNP probe statement.
func ParseSnpStatement(stmt string) (*SnpStatement, error) {
	m := snpStatementRe.FindStringSubmatch(stmt)
	if m == nil {
		return nil, &statement.InvalidStatementError{Input: stmt, Reason: "expected GENE:c.<base><ref>><alt>/<bases>"}
	}
	base, err := strconv.Atoi(m[2])
	if err != nil || base < 1 {
		return nil, &statement.InvalidStatementError{Input: stmt, Reason: "base index must be positive"}
	}
	bases, err := strconv.Atoi(m[5])
	if err != nil || bases < 1 {
		return nil, &statement.InvalidStatementError{Input: stmt, Reason: "probe length must be positive"}
	}
	return &SnpStatement{
		Gene:      m[1],
		Base:      base,
		Reference: strings.ToUpper(m[3]),
		Mutation:  strings.ToUpper(m[4]),
		Bases:     bases,
		Comment:   m[6],
	}, nil
}

// ExplodeSnpProbe parses a gene SNP statement and returns a probe per
// matching transcript. Transcripts whose coding sequence does not reach
// the requested base are logged and skipped; transcripts resolving to a
// coordinate already seen are suppressed so identical probes are
// returned once.
func ExplodeSnpProbe(stmt string, lookup GeneLookup, logger *zap.Logger) ([]*SnpProbe, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := ParseSnpStatement(stmt)
	if err != nil {
		return nil, err
	}

	rows, err := lookup.LookupGene(parsed.Gene)
	if err != nil {
		return nil, fmt.Errorf("look up gene %s: %w", parsed.Gene, err)
	}

	type coordinate struct {
		chrom string
		index int
	}
	seen := make(map[coordinate]bool)
	var probes []*SnpProbe

	for _, row := range rows {
		base := parsed.Base
		mutation := parsed.Mutation
		if !row.IsPlusStrand() {
			base = parsed.Base - 2
			mutation = sequence.ReverseComplement(parsed.Mutation)
		}

		index, err := row.NucleotideIndex(base)
		if err != nil {
			var oor *annotation.OutOfRangeError
			if errors.As(err, &oor) {
				logger.Warn("skipping transcript",
					zap.String("statement", stmt),
					zap.String("transcript", row.Name),
					zap.Error(err))
				continue
			}
			return nil, err
		}

		chrom := strings.TrimPrefix(row.Chrom, "chr")
		if seen[coordinate{chrom, index}] {
			continue
		}
		seen[coordinate{chrom, index}] = true

		resolved := *parsed
		resolved.Mutation = mutation
		probes = append(probes, &SnpProbe{
			SnpStatement: resolved,
			Transcript:   row.Name,
			Chromosome:   chrom,
			Index:        index,
		})
	}

	return probes, nil
}

// Name returns the probe's output name.
func (p *SnpProbe) Name() string {
	return fmt.Sprintf("%s:c.%d%s>%s/%d_%s_%s:%d%s",
		p.Gene, p.Base, p.Reference, p.Mutation, p.Bases,
		p.Transcript, p.Chromosome, p.Index, p.Comment)
}

// Sequence extracts a window of Bases base pairs centered on the
// mutated position and substitutes the mutation base at its center.
func (p *SnpProbe) Sequence(ext Extractor) (string, error) {
	left := (p.Bases - 1) / 2
	start := p.Index - left // 1-based first base of the window
	if start < 1 {
		start = 1
	}
	end := start + p.Bases - 1

	seq, err := ext.GenomicInterval(p.Chromosome, start-1, end)
	if err != nil {
		return "", fmt.Errorf("extract %s:%d-%d: %w", p.Chromosome, start, end, err)
	}

	offset := p.Index - start
	if offset < 0 || offset >= len(seq) {
		return "", fmt.Errorf("mutated base %s:%d is outside the extracted window", p.Chromosome, p.Index)
	}
	return seq[:offset] + p.Mutation + seq[offset+1:], nil
}
