package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	dotSize    = 4
	frameDelay = 2
	maxFrames  = 1800
)

// Recorder collects canvas frames for an animated GIF.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecorder() *Recorder {
	th := CurrentTheme
	return &Recorder{
		palette: color.Palette{
			color.Black,
			themeColor(th.Wall),
			themeColor(th.Lid),
			themeColor(th.First),
			themeColor(th.Second),
		},
	}
}

func themeColor(c lipgloss.Color) color.Color {
	cf, err := colorful.Hex(string(c))
	if err != nil {
		return color.White
	}
	return cf
}

// Capture appends the current canvas as a frame. Frames past the cap
// are dropped.
func (r *Recorder) Capture(c *Canvas) {
	if len(r.frames) >= maxFrames {
		return
	}
	img := image.NewPaletted(image.Rect(0, 0, c.DotsX()*dotSize, c.DotsY()*dotSize), r.palette)
	for y := 0; y < c.DotsY(); y++ {
		for x := 0; x < c.DotsX(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			idx := uint8(c.Inks[y/4][x/2])
			for py := 0; py < dotSize; py++ {
				for px := 0; px < dotSize; px++ {
					img.SetColorIndex(x*dotSize+px, y*dotSize+py, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Save writes the frames as a looping GIF. It does nothing without frames.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
