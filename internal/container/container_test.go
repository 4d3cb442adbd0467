package container

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

func newDefault(t *testing.T) *Container {
	t.Helper()
	c, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return c
}

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero height", func(p *Params) { p.Height = 0 }},
		{"inverted range", func(p *Params) { p.MinWidth, p.MaxWidth = 15000, 5000 }},
		{"default outside range", func(p *Params) { p.DefaultWidth = 20000 }},
		{"lid does not fit", func(p *Params) { p.MinLidWidth = 4500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			if _, err := New(p); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSetWidth_RejectsOutOfRange(t *testing.T) {
	c := newDefault(t)

	for _, w := range []float64{4999, 20000, math.NaN()} {
		err := c.SetWidth(w)
		if !errors.Is(err, kinetics.ErrWidthOutOfRange) {
			t.Errorf("SetWidth(%g): expected ErrWidthOutOfRange, got %v", w, err)
		}
	}
	if c.Width() != 10000 {
		t.Errorf("rejected width changed the container: %g", c.Width())
	}

	if err := c.SetWidth(15000); err != nil {
		t.Fatalf("SetWidth(15000): %v", err)
	}
	if c.Width() != 15000 {
		t.Errorf("expected width 15000, got %g", c.Width())
	}
}

func TestRequestWidth_ClampsToRange(t *testing.T) {
	c := newDefault(t)

	if got := c.RequestWidth(20000); got != 15000 {
		t.Errorf("expected target clamped to 15000, got %g", got)
	}
	c.Step(0.1)
	if c.Width() != 15000 {
		t.Errorf("growing should be immediate, width=%g", c.Width())
	}
}

func TestStep_ShrinkIsSpeedLimited(t *testing.T) {
	c := newDefault(t)
	c.RequestWidth(5000)

	dt := 0.1
	c.Step(dt)
	want := 10000 - c.Params().WallSpeedLimit*dt
	if math.Abs(c.Width()-want) > 1e-9 {
		t.Errorf("expected width %g after one step, got %g", want, c.Width())
	}
	if v := c.LeftWallVelocity(); math.Abs(v-c.Params().WallSpeedLimit) > 1e-6 {
		t.Errorf("expected wall velocity %g, got %g", c.Params().WallSpeedLimit, v)
	}

	for i := 0; i < 1000 && c.IsResizing(); i++ {
		c.Step(dt)
	}
	if c.Width() != 5000 {
		t.Errorf("expected width to settle at 5000, got %g", c.Width())
	}
	c.Step(dt)
	if c.LeftWallVelocity() != 0 {
		t.Errorf("wall at rest should have zero velocity, got %g", c.LeftWallVelocity())
	}
}

func TestStep_NoWorkMeansNoWallVelocity(t *testing.T) {
	c := newDefault(t)
	c.SetLeftWallDoesWork(false)
	c.RequestWidth(5000)
	c.Step(0.1)

	if c.Width() != 5000 {
		t.Errorf("shrink without work is not speed limited, width=%g", c.Width())
	}
	if c.LeftWallVelocity() != 0 {
		t.Errorf("expected zero wall velocity, got %g", c.LeftWallVelocity())
	}
}

func TestResizeImmediately(t *testing.T) {
	c := newDefault(t)
	if err := c.ResizeImmediately(7000); err != nil {
		t.Fatal(err)
	}
	if c.Width() != 7000 || c.DesiredWidth() != 7000 || c.IsResizing() {
		t.Errorf("width=%g desired=%g", c.Width(), c.DesiredWidth())
	}
	if err := c.ResizeImmediately(1); !errors.Is(err, kinetics.ErrWidthOutOfRange) {
		t.Errorf("expected ErrWidthOutOfRange, got %v", err)
	}
}

func TestOpening_Monotonic(t *testing.T) {
	c := newDefault(t)

	for w := c.MinLidWidth(); w <= c.MaxLidWidth(); w += 250 {
		c.SetLidWidth(w)
		if c.OpeningLeft() > c.OpeningRight() {
			t.Fatalf("lid %g: opening left %g > right %g", w, c.OpeningLeft(), c.OpeningRight())
		}
	}

	c.SetLidWidth(c.MaxLidWidth())
	if c.OpeningWidth() != 0 {
		t.Errorf("closed lid should leave no opening, got %g", c.OpeningWidth())
	}
	c.SetLidWidth(c.MaxLidWidth() - 1)
	if c.OpeningWidth() <= 0 {
		t.Error("lid short of max should leave an opening")
	}
}

func TestSetWidth_PreservesOpening(t *testing.T) {
	c := newDefault(t)
	c.SetLidWidth(c.MaxLidWidth() - 2000)

	if err := c.SetWidth(12000); err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.OpeningWidth()-2000) > 1e-9 {
		t.Errorf("expected opening 2000 after growing, got %g", c.OpeningWidth())
	}

	// shrinking below what the opening needs floors the lid at its minimum
	c.SetLidWidth(c.MinLidWidth())
	if err := c.SetWidth(5000); err != nil {
		t.Fatal(err)
	}
	if c.LidWidth() != c.MinLidWidth() {
		t.Errorf("expected lid floored at %g, got %g", c.MinLidWidth(), c.LidWidth())
	}
}

func TestLid_BlowOffAndReturn(t *testing.T) {
	c := newDefault(t)
	c.BlowLidOff()

	if c.IsLidOn() {
		t.Fatal("lid should be off")
	}
	if c.Width() != 10000 {
		t.Errorf("blowing the lid off changed the width to %g", c.Width())
	}
	want := c.OpeningRight() - (c.Left() + c.Params().OpeningLeftInset)
	if c.OpeningWidth() != want {
		t.Errorf("expected fixed opening %g, got %g", want, c.OpeningWidth())
	}

	c.SetLidWidth(1000)
	c.ReturnLid()
	if !c.IsLidOn() || c.LidWidth() != c.MaxLidWidth() || c.IsOpen() {
		t.Errorf("returned lid should be closed: on=%v lid=%g", c.IsLidOn(), c.LidWidth())
	}
}

func TestDivider(t *testing.T) {
	single := newDefault(t)
	if err := single.SetDivider(true); !errors.Is(err, kinetics.ErrNoDivider) {
		t.Errorf("expected ErrNoDivider, got %v", err)
	}

	c, err := New(DiffusionParams())
	if err != nil {
		t.Fatal(err)
	}
	if !c.HasDivider() {
		t.Fatal("two-chamber container starts divided")
	}
	if c.IsOpen() {
		t.Error("two-chamber container has no opening")
	}

	left, right := c.LeftChamber(), c.RightChamber()
	if math.Abs(left.Width()-right.Width()) > 1e-9 {
		t.Errorf("chambers differ: %g vs %g", left.Width(), right.Width())
	}
	if left.MaxX >= right.MinX {
		t.Errorf("chambers overlap: %g >= %g", left.MaxX, right.MinX)
	}

	if err := c.SetDivider(false); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if !c.HasDivider() {
		t.Error("reset should restore the divider")
	}
}
