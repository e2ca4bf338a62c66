package pentagrid

// The controls below are what an interactive shell translates key presses
// into. Each returns a brand-new Generation; the receiver stays valid and
// unchanged.

// AdjustFamilies changes the family count by delta, clamped to
// [MinFamilies, MaxFamilies]. Offsets are re-derived for the new count from
// the same seed; spacing and line range are kept.
func (g *Generation) AdjustFamilies(delta int) (*Generation, error) {
	p := g.params
	p.Families = clamp(p.Families+delta, MinFamilies, MaxFamilies)
	return New(p)
}

// AdjustLineRange changes the line range by delta, clamped to
// [MinLineRange, MaxLineRange]. The grid, and with it the offsets, is
// shared with the receiver rather than re-rolled.
func (g *Generation) AdjustLineRange(delta int) *Generation {
	p := g.params
	p.LineRange = clamp(p.LineRange+delta, MinLineRange, MaxLineRange)
	return &Generation{params: p, grid: g.grid}
}

// Reseed advances the seed by one and re-derives the offsets.
func (g *Generation) Reseed() (*Generation, error) {
	p := g.params
	p.Seed++
	return New(p)
}

// Resize rebuilds the generation for a new viewport. Spacing and line range
// are derived again from the new dimensions.
func (g *Generation) Resize(width, height float64) (*Generation, error) {
	p := g.params
	p.Width, p.Height = width, height
	p.Spacing = 0
	p.LineRange = 0
	return New(p)
}
