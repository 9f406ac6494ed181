package fixedeffect

// GroupInts builds a pure fixed effect from raw integer categories.
// Levels are numbered 1..N in order of first appearance, so the result is
// deterministic for a given input sequence.
func GroupInts(keys []int) (*FixedEffect, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyObservations
	}
	refs := make([]int, len(keys))
	index := make(map[int]int, len(keys))
	for i, k := range keys {
		lvl, ok := index[k]
		if !ok {
			lvl = len(index) + 1
			index[k] = lvl
		}
		refs[i] = lvl
	}

	return &FixedEffect{Refs: refs, N: len(index)}, nil
}

// GroupStrings builds a pure fixed effect from raw string categories.
// Levels are numbered 1..N in order of first appearance.
func GroupStrings(keys []string) (*FixedEffect, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyObservations
	}
	refs := make([]int, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		lvl, ok := index[k]
		if !ok {
			lvl = len(index) + 1
			index[k] = lvl
		}
		refs[i] = lvl
	}

	return &FixedEffect{Refs: refs, N: len(index)}, nil
}

// WithInteraction returns a copy of fe carrying the given continuous
// interaction weights. The refs slice is shared with the receiver; the
// returned descriptor is validated before use.
func (fe *FixedEffect) WithInteraction(interaction []float64) (*FixedEffect, error) {
	if fe == nil {
		return nil, ErrNilFixedEffect
	}
	out := &FixedEffect{Refs: fe.Refs, N: fe.N, Interaction: interaction}
	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
