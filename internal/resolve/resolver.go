package resolve

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/statement"
)

// Resolver computes coordinate records from probe specifications and
// annotation rows. Resolution is pure: the only side channel is the
// logger, which receives the read-through side diagnostic.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver with a no-op logger.
func NewResolver() *Resolver {
	return &Resolver{logger: zap.NewNop()}
}

// SetLogger sets the logger used for diagnostic warnings.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve returns the coordinate record for a concrete specification
// against one annotation row per side. The specification's feature
// indices and sides must be concrete; a globbed bases field is allowed
// and yields the feature's native bounds.
//
// Returns an *InterfaceError for an unrecognized separator or strand,
// or for a globbed field resolution needs, and a *NoFeatureError when a
// feature index exceeds what the row has.
func (r *Resolver) Resolve(spec *statement.Spec, row1, row2 *annotation.Row) (*Record, error) {
	switch spec.Separator {
	case statement.SeparatorPositional:
		return r.positional(spec, row1, row2)
	case statement.SeparatorReadThrough:
		return r.readThrough(spec, row1, row2)
	default:
		return nil, &InterfaceError{fmt.Sprintf("unrecognized separator %q", spec.Separator)}
	}
}

// readThrough resolves a '->' specification: a fusion oriented so the
// two features form a single transcriptional unit. On a plus-strand
// first gene this is plain positional resolution. On a minus-strand
// first gene the transcriptional downstream end is chromosomally
// upstream, so the sides and rows swap before positional resolution.
func (r *Resolver) readThrough(spec *statement.Spec, row1, row2 *annotation.Row) (*Record, error) {
	if err := r.checkReadThroughSides(spec); err != nil {
		return nil, err
	}
	switch row1.Strand {
	case "+":
		return r.positional(spec, row1, row2)
	case "-":
		return r.positional(spec.Flipped(), row2, row1)
	default:
		return nil, &InterfaceError{fmt.Sprintf("unrecognized strand %q", row1.Strand)}
	}
}

// checkReadThroughSides warns when a read-through statement does not
// join the end of the first feature to the start of the second. Any
// other combination is biologically nonsensical for a read-through,
// but it is a diagnostic only: resolution proceeds.
func (r *Resolver) checkReadThroughSides(spec *statement.Spec) error {
	side1, ok1 := spec.Side1.Side.Get()
	side2, ok2 := spec.Side2.Side.Get()
	if !ok1 || !ok2 {
		return &InterfaceError{"read-through specification has a globbed side"}
	}
	if side1 != statement.SideEnd || side2 != statement.SideStart {
		r.logger.Warn("probes generated using the '->' syntax may not have the expected value "+
			"when the end of the first exon is not joined to the start of the second; "+
			"double-check that the probe statement is specified correctly",
			zap.String("statement", spec.String()))
	}
	return nil
}

func (r *Resolver) positional(spec *statement.Spec, row1, row2 *annotation.Row) (*Record, error) {
	start1, end1, halfOpen1, err := sideRange(spec.Side1, row1)
	if err != nil {
		return nil, err
	}
	start2, end2, halfOpen2, err := sideRange(spec.Side2, row2)
	if err != nil {
		return nil, err
	}
	rc1, rc2, err := revCompFlags(spec, row1, row2)
	if err != nil {
		return nil, err
	}
	return &Record{
		Chromosome1: trimChromPrefix(row1.Chrom),
		Start1:      start1,
		End1:        end1,
		HalfOpen1:   halfOpen1,
		Chromosome2: trimChromPrefix(row2.Chrom),
		Start2:      start2,
		End2:        end2,
		HalfOpen2:   halfOpen2,
		RCSide1:     rc1,
		RCSide2:     rc2,
	}, nil
}

// sideRange computes the base-pair range for one side of a
// specification against its row. The returned flag reports whether the
// range carries the feature's native half-open-left bounds rather than
// a closed 1-based range.
func sideRange(h statement.Half, row *annotation.Row) (int, int, bool, error) {
	index, ok := h.Feature.Index.Get()
	if !ok {
		return 0, 0, false, &InterfaceError{fmt.Sprintf("feature index for gene %s is globbed", h.Gene)}
	}

	// A globbed kind resolves against the exon list, matching the
	// original exon-centric behavior of the statement language.
	features := row.Exons()
	kindName := string(statement.KindExon)
	if kind, ok := h.Feature.Kind.Get(); ok && kind == statement.KindIntron {
		features = row.Introns()
		kindName = string(statement.KindIntron)
	}

	if index < 1 || index > len(features) {
		return 0, 0, false, &NoFeatureError{Kind: kindName, Number: index, Length: len(features)}
	}
	feature := features[index-1]

	// A globbed bases field keeps the feature's native half-open
	// bounds; a concrete count produces a closed 1-based range.
	bases, ok := h.Bases.Get()
	if !ok {
		return feature.Start, feature.End, true, nil
	}

	side, ok := h.Side.Get()
	if !ok {
		return 0, 0, false, &InterfaceError{fmt.Sprintf("side for gene %s is globbed", h.Gene)}
	}
	if isLeftmost(side, row.Strand) {
		return feature.Start + 1, feature.Start + bases, false, nil
	}
	return feature.End - bases + 1, feature.End, false, nil
}

// isLeftmost reports whether the requested side is the
// chromosomally-leftmost edge of the feature. Annotation coordinates
// run left-to-right on the plus strand regardless of gene orientation,
// so "start" is leftmost on the plus strand and rightmost on the minus
// strand.
func isLeftmost(side statement.Side, strand string) bool {
	return (side == statement.SideStart) == (strand == "+")
}

// revCompFlags returns the reverse-complement flags for the two sides.
// Side 1 is flagged for (start, +) and (end, -); side 2 for (start, -)
// and (end, +). Following this rule places the intended breakpoint in
// the middle of the assembled probe.
func revCompFlags(spec *statement.Spec, row1, row2 *annotation.Row) (bool, bool, error) {
	side1, ok1 := spec.Side1.Side.Get()
	side2, ok2 := spec.Side2.Side.Get()
	if !ok1 || !ok2 {
		return false, false, &InterfaceError{"specification has a globbed side"}
	}
	rc1 := (side1 == statement.SideStart) == (row1.Strand == "+")
	rc2 := (side2 == statement.SideStart) == (row2.Strand == "-")
	return rc1, rc2, nil
}

// trimChromPrefix strips a textual "chr" prefix from a chromosome name.
func trimChromPrefix(chrom string) string {
	return strings.TrimPrefix(chrom, "chr")
}
