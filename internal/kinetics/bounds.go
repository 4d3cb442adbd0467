package kinetics

// Bounds is an axis-aligned rectangle. Y grows upward.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether (x, y) lies inside b, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// ContainsParticle reports whether the particle center lies inside b.
func (b Bounds) ContainsParticle(p *Particle) bool {
	return b.Contains(p.Position.X, p.Position.Y)
}

// Dilate grows b by d on every side.
func (b Bounds) Dilate(d float64) Bounds {
	return Bounds{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}
