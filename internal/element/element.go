// Package element models the host UI framework's view tree as seen by
// the capture pipeline. The host owns every element; this package holds
// only transient, non-owning references and never mutates tree shape.
package element

import (
	"image/color"
	"strings"
)

// Visibility is an element's local visibility state.
type Visibility int

const (
	Visible Visibility = iota
	Invisible
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Kind is the closed set of element variants the capture pipeline
// distinguishes between.
type Kind int

const (
	KindPlain Kind = iota
	KindImage
	KindWebContent
	KindHardwareSurface
	KindSimpleVideo
	KindMediaPlayerSurface
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindImage:
		return "image"
	case KindWebContent:
		return "web_content"
	case KindHardwareSurface:
		return "hardware_surface"
	case KindSimpleVideo:
		return "simple_video"
	case KindMediaPlayerSurface:
		return "media_player_surface"
	default:
		return "unknown"
	}
}

// MediaPlayerClassName is the host class name of the optional media
// player component. The media kind is matched by class-name suffix
// rather than by Kind alone so that hosts built without the media
// component never need to reference it.
const MediaPlayerClassName = "MediaPlayerView"

// IsMediaPlayerClass reports whether a host class name identifies the
// optional media player component.
func IsMediaPlayerClass(name string) bool {
	return name == MediaPlayerClassName || strings.HasSuffix(name, "."+MediaPlayerClassName)
}

// Element is a node in the host view tree.
//
// Width, Height and Alpha reflect the element's current measured state;
// both dimensions must be positive for the element to be capturable.
// Content carries the kind-specific pixel access interface (Renderer,
// ImageContent, WebContent, Surface or MediaPlayer).
type Element struct {
	ID         string
	ClassName  string
	Kind       Kind
	Visibility Visibility
	Attached   bool
	LaidOut    bool
	Width      int
	Height     int
	Alpha      float64
	Background color.Color

	Content interface{}

	parent   *Element
	children []*Element
}

// Parent returns the element's parent, or nil at the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the element's children. The returned slice is the
// host's; callers must not mutate it.
func (e *Element) Children() []*Element {
	return e.children
}

// AddChild links a child into the tree. Called by host adapters while
// building a tree, never by the capture pipeline.
func (e *Element) AddChild(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
}

// RemoveChild unlinks a child. Host-side only, like AddChild.
func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// IsShown reports whether the element and every ancestor are locally
// visible. This is the hierarchy-wide visibility check; it says nothing
// about attachment, layout or size.
func (e *Element) IsShown() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Visibility != Visible {
			return false
		}
	}
	return true
}

// IsMediaPlayer reports whether the element is the optional media
// player component, matched by class-name suffix.
func (e *Element) IsMediaPlayer() bool {
	return IsMediaPlayerClass(e.ClassName)
}
