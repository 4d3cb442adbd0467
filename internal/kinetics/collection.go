package kinetics

// Collection owns an ordered set of particles. Newest particles are at the end.
type Collection struct {
	particles []*Particle
}

// NewCollection returns an empty collection with room for capacity particles.
func NewCollection(capacity int) *Collection {
	return &Collection{particles: make([]*Particle, 0, capacity)}
}

func (c *Collection) Len() int { return len(c.particles) }

// At returns the i-th particle.
func (c *Collection) At(i int) *Particle { return c.particles[i] }

// Particles exposes the backing slice. Callers must not append to it.
func (c *Collection) Particles() []*Particle { return c.particles }

func (c *Collection) Add(p *Particle) {
	c.particles = append(c.particles, p)
}

// RemoveLast drops the n newest particles and returns them.
func (c *Collection) RemoveLast(n int) []*Particle {
	if n <= 0 {
		return nil
	}
	if n > len(c.particles) {
		n = len(c.particles)
	}
	cut := len(c.particles) - n
	removed := make([]*Particle, n)
	copy(removed, c.particles[cut:])
	for i := cut; i < len(c.particles); i++ {
		c.particles[i] = nil
	}
	c.particles = c.particles[:cut]
	return removed
}

// Remove deletes p, keeping the order of the remaining particles.
func (c *Collection) Remove(p *Particle) bool {
	for i, q := range c.particles {
		if q == p {
			copy(c.particles[i:], c.particles[i+1:])
			c.particles[len(c.particles)-1] = nil
			c.particles = c.particles[:len(c.particles)-1]
			return true
		}
	}
	return false
}

// RemoveIf deletes every particle for which fn returns true and returns them
// in their original order.
func (c *Collection) RemoveIf(fn func(*Particle) bool) []*Particle {
	var removed []*Particle
	kept := c.particles[:0]
	for _, p := range c.particles {
		if fn(p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(c.particles); i++ {
		c.particles[i] = nil
	}
	c.particles = kept
	return removed
}

func (c *Collection) Clear() {
	for i := range c.particles {
		c.particles[i] = nil
	}
	c.particles = c.particles[:0]
}

// TotalKineticEnergy sums ½mv² over the collection.
func (c *Collection) TotalKineticEnergy() float64 {
	sum := 0.0
	for _, p := range c.particles {
		sum += p.KineticEnergy()
	}
	return sum
}
