package statement

// Expansion is a lazy, restartable stream of the concrete
// specifications a globbed specification denotes. For a fixed input the
// stream order is deterministic: the expansion walks the Cartesian
// product of the glob axes in the order side1, side2, feature1 index,
// feature2 index, varying the last axis fastest.
//
// Glob bases fields pass through expansion unchanged: the resolver
// accepts a glob in the bases field and returns the feature's native
// bounds for it. Glob feature kinds likewise pass through as opaque
// values.
type Expansion struct {
	base *Spec
	axes []axis
	idx  []int
	done bool
}

// axis is one glob dimension: n choices, applied to a Spec copy by
// position.
type axis struct {
	n     int
	apply func(*Spec, int)
}

// Expand returns the expansion of spec. featureCount1 and
// featureCount2 bound the enumeration of globbed feature indices for
// side 1 and side 2 respectively; pass 0 when not available. A count is
// required precisely when the corresponding feature index is globbed,
// and a missing one is reported as an *ExpandError. The input spec is
// never modified.
func Expand(spec *Spec, featureCount1, featureCount2 int) (*Expansion, error) {
	var axes []axis

	if spec.Side1.Side.IsGlob() {
		axes = append(axes, axis{n: 2, apply: func(s *Spec, i int) {
			s.Side1.Side = Concrete(sideChoices[i])
		}})
	}
	if spec.Side2.Side.IsGlob() {
		axes = append(axes, axis{n: 2, apply: func(s *Spec, i int) {
			s.Side2.Side = Concrete(sideChoices[i])
		}})
	}
	if spec.Side1.Feature.Index.IsGlob() {
		if featureCount1 < 1 {
			return nil, &ExpandError{Side: 1}
		}
		axes = append(axes, axis{n: featureCount1, apply: func(s *Spec, i int) {
			s.Side1.Feature.Index = Concrete(i + 1)
		}})
	}
	if spec.Side2.Feature.Index.IsGlob() {
		if featureCount2 < 1 {
			return nil, &ExpandError{Side: 2}
		}
		axes = append(axes, axis{n: featureCount2, apply: func(s *Spec, i int) {
			s.Side2.Feature.Index = Concrete(i + 1)
		}})
	}

	return &Expansion{base: spec, axes: axes, idx: make([]int, len(axes))}, nil
}

var sideChoices = [2]Side{SideStart, SideEnd}

// Next returns the next specification in the expansion, or nil when
// the expansion is exhausted. Each returned Spec is a fresh copy.
func (e *Expansion) Next() *Spec {
	if e.done {
		return nil
	}

	out := *e.base
	for i, a := range e.axes {
		a.apply(&out, e.idx[i])
	}

	// Advance the odometer, last axis fastest.
	carried := true
	for i := len(e.axes) - 1; i >= 0; i-- {
		e.idx[i]++
		if e.idx[i] < e.axes[i].n {
			carried = false
			break
		}
		e.idx[i] = 0
	}
	if carried {
		e.done = true
	}

	return &out
}

// Reset rewinds the expansion to its first specification.
func (e *Expansion) Reset() {
	for i := range e.idx {
		e.idx[i] = 0
	}
	e.done = false
}

// All returns every specification in the expansion from the beginning.
func (e *Expansion) All() []*Spec {
	e.Reset()
	var out []*Spec
	for spec := e.Next(); spec != nil; spec = e.Next() {
		out = append(out, spec)
	}
	return out
}
