package sim

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/viewsnap/viewsnap/internal/element"
)

// boxContent renders a flat fill with a subtle horizontal gradient so
// captures pass the color-variation check.
type boxContent struct {
	base color.RGBA
}

func (c *boxContent) Render(dst *image.RGBA) error {
	b := dst.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		shade := uint8((x - b.Min.X) * 40 / max(b.Dx(), 1))
		col := color.RGBA{
			R: c.base.R - min8(c.base.R, shade),
			G: c.base.G - min8(c.base.G, shade),
			B: c.base.B - min8(c.base.B, shade),
			A: 255,
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			dst.SetRGBA(x, y, col)
		}
	}
	return nil
}

func (c *boxContent) Measure() (int, int) {
	return 100, 40
}

// NewBox creates a plain element with gradient content.
func NewBox(id string, width, height int, base color.RGBA) *element.Element {
	return &element.Element{
		ID:         id,
		ClassName:  "sim.BoxView",
		Kind:       element.KindPlain,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Content:    &boxContent{base: base},
	}
}

// pictureContent holds a raw bitmap and renders it scaled to the
// element's bounds, the way an image view applies its scale mode.
type pictureContent struct {
	src *image.RGBA
}

func (c *pictureContent) Source() image.Image {
	return c.src
}

func (c *pictureContent) Render(dst *image.RGBA) error {
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), c.src, c.src.Bounds(), draw.Over, nil)
	return nil
}

// NewPicture creates an image element backed by a checkerboard bitmap
// twice the element's size, so scaled rendering is observable.
func NewPicture(id string, width, height int) *element.Element {
	src := image.NewRGBA(image.Rect(0, 0, width*2, height*2))
	cell := 32
	for y := 0; y < height*2; y++ {
		for x := 0; x < width*2; x++ {
			if (x/cell+y/cell)%2 == 0 {
				src.SetRGBA(x, y, color.RGBA{R: 255, G: 87, B: 34, A: 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{R: 255, G: 235, B: 205, A: 255})
			}
		}
	}
	return &element.Element{
		ID:         id,
		ClassName:  "sim.PictureView",
		Kind:       element.KindImage,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Content:    &pictureContent{src: src},
	}
}

// pageContent simulates scrollable web content: a document several
// viewports tall with banded rows, plus real scroll offset state.
type pageContent struct {
	mu            sync.Mutex
	viewportW     int
	viewportH     int
	contentH      int
	scrollX       int
	scrollY       int
	renderedFrom  image.Point
	renderHistory int
}

func (c *pageContent) ContentSize() (int, int) {
	return c.viewportW, c.contentH
}

func (c *pageContent) ScrollOffset() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollX, c.scrollY
}

func (c *pageContent) SetScrollOffset(x, y int) {
	c.mu.Lock()
	c.scrollX, c.scrollY = x, y
	c.mu.Unlock()
}

func (c *pageContent) Render(dst *image.RGBA) error {
	return c.RenderContent(dst)
}

func (c *pageContent) RenderContent(dst *image.RGBA) error {
	c.mu.Lock()
	ox, oy := c.scrollX, c.scrollY
	c.renderedFrom = image.Pt(ox, oy)
	c.renderHistory++
	c.mu.Unlock()

	b := dst.Bounds()
	band := 60
	for y := b.Min.Y; y < b.Max.Y; y++ {
		docY := y - b.Min.Y + oy
		shade := uint8(200 - (docY/band%8)*20)
		for x := b.Min.X; x < b.Max.X; x++ {
			docX := x - b.Min.X + ox
			col := color.RGBA{R: shade, G: shade, B: 255 - uint8(docX%64), A: 255}
			dst.SetRGBA(x, y, col)
		}
	}
	return nil
}

// NewPage creates a web content element whose document is pages
// viewports tall.
func NewPage(id string, width, height, pages int) *element.Element {
	if pages < 1 {
		pages = 1
	}
	return &element.Element{
		ID:         id,
		ClassName:  "sim.PageView",
		Kind:       element.KindWebContent,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Content: &pageContent{
			viewportW: width,
			viewportH: height,
			contentH:  height * pages,
		},
	}
}

// videoContent renders a frame-counter test card through the canvas
// path, for simple video elements.
type videoContent struct {
	mu    sync.Mutex
	frame int
}

func (c *videoContent) Render(dst *image.RGBA) error {
	c.mu.Lock()
	c.frame++
	n := c.frame
	c.mu.Unlock()

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8((x + n*3) % 256),
				G: uint8((y + n*5) % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return nil
}

// NewVideo creates a simple video element.
func NewVideo(id string, width, height int) *element.Element {
	return &element.Element{
		ID:         id,
		ClassName:  "sim.VideoView",
		Kind:       element.KindSimpleVideo,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Content:    &videoContent{},
	}
}

// FeedSurface is a hardware-surface stand-in with a toggleable backing
// and a frame counter. Before the first few frames it produces black,
// mimicking a feed that has not stabilized yet.
type FeedSurface struct {
	mu        sync.Mutex
	width     int
	height    int
	available bool
	frame     int

	// WarmupFrames is how many snapshots come back black before real
	// content appears.
	WarmupFrames int
}

func (f *FeedSurface) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

// SetAvailable toggles the live backing.
func (f *FeedSurface) SetAvailable(v bool) {
	f.mu.Lock()
	f.available = v
	f.mu.Unlock()
}

func (f *FeedSurface) Snapshot() (*image.RGBA, error) {
	f.mu.Lock()
	if !f.available {
		f.mu.Unlock()
		return nil, fmt.Errorf("surface has no backing")
	}
	f.frame++
	n := f.frame
	warmup := f.WarmupFrames
	w, h := f.width, f.height
	f.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if n <= warmup {
		return img, nil // still black
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*255/max(w, 1) + n) % 256),
				G: uint8((y * 255 / max(h, 1)) % 256),
				B: uint8((x + y + n*7) % 256),
				A: 255,
			})
		}
	}
	return img, nil
}

// NewFeed creates a hardware-surface element with a live FeedSurface.
func NewFeed(id string, width, height int) *element.Element {
	return &element.Element{
		ID:         id,
		ClassName:  "sim.FeedView",
		Kind:       element.KindHardwareSurface,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Content:    &FeedSurface{width: width, height: height, available: true},
	}
}

// playerContent is the composite media player. Its surface child lives
// in an internal sub-hierarchy; ExposeSurface controls whether the
// accessor reveals it or callers must fall back to a tree search.
type playerContent struct {
	mu            sync.Mutex
	surfaceEl     *element.Element
	playing       bool
	exposeSurface bool
}

func (c *playerContent) SurfaceElement() *element.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exposeSurface {
		return nil
	}
	return c.surfaceEl
}

func (c *playerContent) Playing() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing, nil
}

// NewMediaPlayer creates the optional media player composite: a player
// element whose internal hierarchy contains a hardware-surface child.
func NewMediaPlayer(id string, width, height int) *element.Element {
	player := &element.Element{
		ID:         id,
		ClassName:  "sim." + element.MediaPlayerClassName,
		Kind:       element.KindMediaPlayerSurface,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
	}

	// Internal chrome wrapper between the player and its surface.
	chrome := &element.Element{
		ID:         id + ".chrome",
		ClassName:  "sim.PlayerChrome",
		Kind:       element.KindPlain,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
	}
	surface := NewFeed(id+".surface", width, height)
	chrome.AddChild(surface)
	player.AddChild(chrome)

	player.Content = &playerContent{surfaceEl: surface, playing: true, exposeSurface: true}
	return player
}

// HideSurfaceAccessor makes the player's accessor return nil so the
// bounded hierarchy search path is exercised.
func HideSurfaceAccessor(player *element.Element) {
	if pc, ok := player.Content.(*playerContent); ok {
		pc.mu.Lock()
		pc.exposeSurface = false
		pc.mu.Unlock()
	}
}

// SetPlaying sets the simulated playback state.
func SetPlaying(player *element.Element, playing bool) {
	if pc, ok := player.Content.(*playerContent); ok {
		pc.mu.Lock()
		pc.playing = playing
		pc.mu.Unlock()
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
