package stats

import "fmt"

// Windows offered by the collision counter, in ps.
var CounterWindows = []float64{5, 10, 20}

// CollisionCounter counts wall collisions over a fixed window and keeps the
// count of the last completed window.
type CollisionCounter struct {
	window  float64
	running bool

	current int
	elapsed float64
	last    int
	done    bool
}

func NewCollisionCounter(window float64) (*CollisionCounter, error) {
	c := &CollisionCounter{}
	if err := c.SetWindow(window); err != nil {
		return nil, err
	}
	return c, nil
}

// SetWindow changes the window and restarts the count.
func (c *CollisionCounter) SetWindow(window float64) error {
	for _, w := range CounterWindows {
		if w == window {
			c.window = window
			c.Reset()
			return nil
		}
	}
	return fmt.Errorf("stats: collision counter window %g not in %v", window, CounterWindows)
}

func (c *CollisionCounter) Window() float64 { return c.window }

// Start begins counting. Counts from a stopped counter are discarded.
func (c *CollisionCounter) Start() {
	c.running = true
	c.current, c.elapsed = 0, 0
}

func (c *CollisionCounter) Stop()         { c.running = false }
func (c *CollisionCounter) Running() bool { return c.running }

// Add records n collisions during a tick of length dt.
func (c *CollisionCounter) Add(n int, dt float64) {
	if !c.running {
		return
	}
	c.current += n
	c.elapsed += dt
	if c.elapsed >= c.window {
		c.last, c.done = c.current, true
		c.current = 0
		c.elapsed -= c.window
	}
}

// Last is the count of the last completed window. ok is false until one completes.
func (c *CollisionCounter) Last() (n int, ok bool) { return c.last, c.done }

func (c *CollisionCounter) Reset() {
	c.running = false
	c.current, c.elapsed, c.last, c.done = 0, 0, 0, false
}
