// Package sim is a software-rendered host: an in-process view tree
// whose elements draw procedural content. It backs the CLI, the preview
// daemon and the test suites, standing in for the host UI framework.
package sim

import (
	"image/color"
	"sync"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/host"
)

// Screen is a simulated host context owning one view tree.
type Screen struct {
	name string
	root *element.Element

	mu   sync.Mutex
	refs []*host.Ref
}

// NewScreen creates an empty screen of the given size.
func NewScreen(name string, width, height int) *Screen {
	root := &element.Element{
		ID:         "root",
		ClassName:  "sim.RootView",
		Kind:       element.KindPlain,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      width,
		Height:     height,
		Alpha:      1.0,
		Background: color.RGBA{R: 245, G: 245, B: 245, A: 255},
	}
	root.Content = &boxContent{base: color.RGBA{R: 235, G: 238, B: 241, A: 255}}
	return &Screen{name: name, root: root}
}

// Name implements host.Host.
func (s *Screen) Name() string {
	return s.name
}

// Root implements host.Host.
func (s *Screen) Root() *element.Element {
	return s.root
}

// Ref hands out an expiring handle tied to this screen's lifetime.
func (s *Screen) Ref() *host.Ref {
	r := host.NewRef(s)
	s.mu.Lock()
	s.refs = append(s.refs, r)
	s.mu.Unlock()
	return r
}

// Teardown expires every handle, simulating the host context's end of
// life.
func (s *Screen) Teardown() {
	s.mu.Lock()
	refs := s.refs
	s.refs = nil
	s.mu.Unlock()
	for _, r := range refs {
		r.Expire()
	}
}

// NewDemoScreen builds a screen populated with one element of every
// kind, sized to exercise the full capture pipeline.
func NewDemoScreen() *Screen {
	s := NewScreen("demo", 1080, 1920)

	label := NewBox("label", 1080, 120, color.RGBA{R: 33, G: 150, B: 243, A: 255})
	s.root.AddChild(label)

	picture := NewPicture("picture", 540, 360)
	s.root.AddChild(picture)

	page := NewPage("page", 1080, 600, 3)
	s.root.AddChild(page)

	video := NewVideo("video", 640, 360)
	s.root.AddChild(video)

	feed := NewFeed("feed", 1280, 720)
	s.root.AddChild(feed)

	player := NewMediaPlayer("player", 1280, 720)
	s.root.AddChild(player)

	return s
}
