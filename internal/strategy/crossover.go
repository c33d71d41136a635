package strategy

// CrossoverDetector keeps a single previous value per alias and detects
// directional threshold crossings between consecutive bars. Detection
// must run before Update for the same bar; the interpreter enforces
// evaluate-then-update at the end of every bar.
type CrossoverDetector struct {
	prev map[string]float64
}

// NewCrossoverDetector creates an empty detector
func NewCrossoverDetector() *CrossoverDetector {
	return &CrossoverDetector{
		prev: make(map[string]float64),
	}
}

// CrossAbove reports whether the alias moved from at-or-below the
// threshold to above it. False when the alias has no previous value.
func (d *CrossoverDetector) CrossAbove(alias string, current, threshold float64) bool {
	previous, ok := d.prev[alias]
	if !ok {
		return false
	}
	return previous <= threshold && current > threshold
}

// CrossBelow reports whether the alias moved from at-or-above the
// threshold to below it.
func (d *CrossoverDetector) CrossBelow(alias string, current, threshold float64) bool {
	previous, ok := d.prev[alias]
	if !ok {
		return false
	}
	return previous >= threshold && current < threshold
}

// Previous returns the recorded previous value for an alias.
func (d *CrossoverDetector) Previous(alias string) (float64, bool) {
	v, ok := d.prev[alias]
	return v, ok
}

// Update records the alias's current value as the previous value for
// the next bar.
func (d *CrossoverDetector) Update(alias string, current float64) {
	d.prev[alias] = current
}

// Reset drops the recorded value for an alias. Used when a series goes
// undefined so a crossing is never detected across a gap.
func (d *CrossoverDetector) Reset(alias string) {
	delete(d.prev, alias)
}
