package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsShown(t *testing.T) {
	root := &Element{ID: "root", Visibility: Visible}
	mid := &Element{ID: "mid", Visibility: Visible}
	leaf := &Element{ID: "leaf", Visibility: Visible}
	root.AddChild(mid)
	mid.AddChild(leaf)

	assert.True(t, leaf.IsShown())

	mid.Visibility = Hidden
	assert.True(t, root.IsShown())
	assert.False(t, mid.IsShown())
	assert.False(t, leaf.IsShown())
}

func TestAddRemoveChild(t *testing.T) {
	root := &Element{ID: "root"}
	a := &Element{ID: "a"}
	b := &Element{ID: "b"}
	root.AddChild(a)
	root.AddChild(b)

	assert.Equal(t, root, a.Parent())
	assert.Len(t, root.Children(), 2)

	root.RemoveChild(a)
	assert.Nil(t, a.Parent())
	assert.Equal(t, []*Element{b}, root.Children())
}

func TestIsMediaPlayerClass(t *testing.T) {
	tests := []struct {
		className string
		want      bool
	}{
		{MediaPlayerClassName, true},
		{"app.widgets." + MediaPlayerClassName, true},
		{"MediaPlayerViewport", false},
		{"TextView", false},
		{"", false},
	}

	for _, tt := range tests {
		el := &Element{ClassName: tt.className}
		assert.Equal(t, tt.want, el.IsMediaPlayer(), "class %q", tt.className)
	}
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "media_player_surface", KindMediaPlayerSurface.String())
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
