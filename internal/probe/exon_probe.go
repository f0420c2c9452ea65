package probe

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/resolve"
	"github.com/bcgsc/probegen/internal/sequence"
	"github.com/bcgsc/probegen/internal/statement"
)

// ExonProbe is one concrete fusion probe: a concrete specification and
// its resolved coordinate record.
type ExonProbe struct {
	Spec   *statement.Spec
	Record *resolve.Record
}

// ExplodeExonProbe parses a probe statement and returns every probe it
// denotes: the statement's glob fields are expanded against each pair
// of annotation rows matching the two gene names, and each concrete
// specification is resolved to coordinates. Resolution runs on the
// worker pool; ordered collection keeps the output deterministic in
// expansion order. Probes with identical coordinate records are
// returned once. Specifications whose feature index overruns a row are
// logged and skipped, since a glob expanded against one transcript may
// overrun a shorter sibling transcript.
func ExplodeExonProbe(stmt string, lookup GeneLookup, resolver *resolve.Resolver, logger *zap.Logger) ([]*ExonProbe, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	spec, err := statement.Parse(stmt)
	if err != nil {
		return nil, err
	}

	rows1, err := lookup.LookupGene(spec.Side1.Gene)
	if err != nil {
		return nil, fmt.Errorf("look up gene %s: %w", spec.Side1.Gene, err)
	}
	rows2, err := lookup.LookupGene(spec.Side2.Gene)
	if err != nil {
		return nil, fmt.Errorf("look up gene %s: %w", spec.Side2.Gene, err)
	}

	items := make(chan WorkItem)
	expandErr := make(chan error, 1)
	go func() {
		defer close(items)
		seq := 0
		for _, row1 := range rows1 {
			for _, row2 := range rows2 {
				expansion, err := statement.Expand(spec, featureCount(spec.Side1, row1), featureCount(spec.Side2, row2))
				if err != nil {
					expandErr <- err
					return
				}
				for concrete := expansion.Next(); concrete != nil; concrete = expansion.Next() {
					items <- WorkItem{Seq: seq, Spec: concrete, Row1: row1, Row2: row2}
					seq++
				}
			}
		}
	}()

	seen := make(map[resolve.Record]bool)
	var probes []*ExonProbe
	err = OrderedCollect(ParallelResolve(resolver, items, 0), func(r WorkResult) error {
		if r.Err != nil {
			var nfe *resolve.NoFeatureError
			if errors.As(r.Err, &nfe) {
				logger.Warn("skipping specification",
					zap.String("statement", r.Spec.String()),
					zap.String("transcript1", r.Row1.Name),
					zap.String("transcript2", r.Row2.Name),
					zap.Error(r.Err))
				return nil
			}
			return r.Err
		}
		if seen[*r.Record] {
			return nil
		}
		seen[*r.Record] = true
		probes = append(probes, &ExonProbe{Spec: r.Spec, Record: r.Record})
		return nil
	})
	if err != nil {
		return nil, err
	}
	select {
	case err := <-expandErr:
		return nil, err
	default:
	}

	return probes, nil
}

// featureCount returns how many features of the half's kind the row
// has, for bounding glob expansion.
func featureCount(h statement.Half, row *annotation.Row) int {
	if kind, ok := h.Feature.Kind.Get(); ok && kind == statement.KindIntron {
		return row.IntronCount()
	}
	return row.ExonCount()
}

// Name returns the probe's output name: the canonical statement plus
// resolved coordinates, with the statement comment appended verbatim.
func (p *ExonProbe) Name() string {
	rec := p.Record
	name := fmt.Sprintf("%s_%s:%d-%d_%s:%d-%d",
		p.Spec.Name(),
		rec.Chromosome1, rec.Start1, rec.End1,
		rec.Chromosome2, rec.Start2, rec.End2)
	if p.Spec.Comment != "" {
		name += strings.TrimRight(p.Spec.Comment, "\n")
	}
	return name
}

// Sequence extracts and assembles the probe's nucleotide sequence.
// Flagged fragments are reverse-complemented before concatenation so
// the fusion breakpoint lands at the middle of the probe. Each side's
// coordinate convention comes from the record itself, which stays
// correct even when read-through resolution flipped the sides.
func (p *ExonProbe) Sequence(ext Extractor) (string, error) {
	frag1, err := p.fragment(ext, p.Record.Chromosome1, p.Record.Start1, p.Record.End1,
		p.Record.HalfOpen1, p.Record.RCSide1)
	if err != nil {
		return "", err
	}
	frag2, err := p.fragment(ext, p.Record.Chromosome2, p.Record.Start2, p.Record.End2,
		p.Record.HalfOpen2, p.Record.RCSide2)
	if err != nil {
		return "", err
	}
	return frag1 + frag2, nil
}

// fragment extracts one side of the probe. Ranges with a concrete
// bases count are 1-based inclusive; globbed-bases ranges are already
// half-open, matching the extractor's convention directly.
func (p *ExonProbe) fragment(ext Extractor, chrom string, start, end int, halfOpen, rc bool) (string, error) {
	if !halfOpen {
		start--
	}
	seq, err := ext.GenomicInterval(chrom, start, end)
	if err != nil {
		return "", fmt.Errorf("extract %s:%d-%d: %w", chrom, start, end, err)
	}
	if rc {
		seq = sequence.ReverseComplement(seq)
	}
	return seq, nil
}
