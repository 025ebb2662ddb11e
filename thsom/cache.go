package thsom

// influenceCache holds one neighborhood vector per winning unit. Entries
// depend only on radius, learning rate and winner, so they stay valid for a
// whole epoch and are dropped when the next one starts.
type influenceCache struct {
	slots  [][]float64
	filled []bool
	misses int
}

func newInfluenceCache(n int) influenceCache {
	return influenceCache{slots: make([][]float64, n), filled: make([]bool, n)}
}

func (c *influenceCache) reset() {
	for i := range c.slots {
		c.slots[i] = nil
		c.filled[i] = false
	}
	c.misses = 0
}

// get returns the cached vector for unit, computing it on first use.
func (c *influenceCache) get(unit int, compute func(int) []float64) []float64 {
	if !c.filled[unit] {
		c.slots[unit] = compute(unit)
		c.filled[unit] = true
		c.misses++
	}
	return c.slots[unit]
}
