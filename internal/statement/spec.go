// Package statement implements the probe statement language: parsing
// textual probe statements into structured specifications and expanding
// glob fields into concrete specifications.
package statement

import "fmt"

// Value is a field that is either a concrete value or the glob marker
// "*". Only feature kind, feature index, side, and bases fields may
// carry the glob variant; gene names are plain strings by construction.
type Value[T comparable] struct {
	concrete bool
	value    T
}

// Concrete returns a Value holding v.
func Concrete[T comparable](v T) Value[T] {
	return Value[T]{concrete: true, value: v}
}

// Glob returns the glob ("match everything") Value.
func Glob[T comparable]() Value[T] {
	return Value[T]{}
}

// IsGlob reports whether the value is the glob marker.
func (v Value[T]) IsGlob() bool {
	return !v.concrete
}

// Get returns the concrete value and whether one is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.concrete
}

func (v Value[T]) String() string {
	if !v.concrete {
		return "*"
	}
	return fmt.Sprint(v.value)
}

// Kind is a genomic feature kind.
type Kind string

const (
	KindExon   Kind = "exon"
	KindIntron Kind = "intron"
)

// Side names an end of a feature. "start" and "end" are in
// transcription order on both strands; the parser never reinterprets
// them relative to chromosome coordinates.
type Side string

const (
	SideStart Side = "start"
	SideEnd   Side = "end"
)

// Separator selects the coordinate resolution strategy.
type Separator string

const (
	// SeparatorPositional resolves each side independently.
	SeparatorPositional Separator = "/"
	// SeparatorReadThrough models a transcriptional read-through
	// spanning both genes.
	SeparatorReadThrough Separator = "->"
)

// Feature references an exon or intron by kind and 1-based
// transcription-order index. Index 0 is never valid.
type Feature struct {
	Kind  Value[Kind]
	Index Value[int]
}

func (f Feature) String() string {
	return fmt.Sprintf("%s[%s]", f.Kind, f.Index)
}

// Half is one side of a probe specification.
type Half struct {
	Gene    string
	Feature Feature
	Side    Value[Side]
	Bases   Value[int]
}

func (h Half) String() string {
	return fmt.Sprintf("%s#%s%c%s", h.Gene, h.Feature, sideSigns[h.Side], h.Bases)
}

// Spec is the structured form of a probe statement. Specs are value
// objects: parsing and expansion produce new Specs and never mutate
// existing ones.
type Spec struct {
	Side1     Half
	Side2     Half
	Separator Separator
	Comment   string
}

// IsConcrete reports whether no globbable field on either side holds
// the glob marker.
func (s *Spec) IsConcrete() bool {
	return s.Side1.isConcrete() && s.Side2.isConcrete()
}

func (h Half) isConcrete() bool {
	return !h.Feature.Kind.IsGlob() &&
		!h.Feature.Index.IsGlob() &&
		!h.Side.IsGlob() &&
		!h.Bases.IsGlob()
}

// Flipped returns a copy of the specification with the two sides
// exchanged. The separator and comment are unchanged.
func (s *Spec) Flipped() *Spec {
	return &Spec{
		Side1:     s.Side2,
		Side2:     s.Side1,
		Separator: s.Separator,
		Comment:   s.Comment,
	}
}

// String renders the specification as a canonical probe statement
// without the comment. The result parses back to an equal Spec.
func (s *Spec) String() string {
	return fmt.Sprintf("%s %s %s", s.Side1, s.Separator, s.Side2)
}

// Name renders the specification for use in generated output names:
// the canonical statement with whitespace removed.
func (s *Spec) Name() string {
	return fmt.Sprintf("%s%s%s", s.Side1, s.Separator, s.Side2)
}
