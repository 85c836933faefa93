package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewsnap/viewsnap/internal/element"
)

func readyElement() *element.Element {
	return &element.Element{
		ID:         "el",
		Kind:       element.KindPlain,
		Visibility: element.Visible,
		Attached:   true,
		LaidOut:    true,
		Width:      100,
		Height:     50,
		Alpha:      1.0,
	}
}

func TestCheckOrder(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name   string
		mutate func(el *element.Element)
		reason string
	}{
		{
			name:   "invisible",
			mutate: func(el *element.Element) { el.Visibility = element.Invisible },
			reason: "element visibility is invisible",
		},
		{
			name:   "hidden",
			mutate: func(el *element.Element) { el.Visibility = element.Hidden },
			reason: "element visibility is hidden",
		},
		{
			name:   "zero width",
			mutate: func(el *element.Element) { el.Width = 0 },
			reason: "element has no size (0x50)",
		},
		{
			name:   "zero height",
			mutate: func(el *element.Element) { el.Height = 0 },
			reason: "element has no size (100x0)",
		},
		{
			name:   "detached",
			mutate: func(el *element.Element) { el.Attached = false },
			reason: "element is not attached to a display",
		},
		{
			name:   "not laid out",
			mutate: func(el *element.Element) { el.LaidOut = false },
			reason: "element has not completed layout",
		},
		{
			name:   "transparent",
			mutate: func(el *element.Element) { el.Alpha = 0.001 },
			reason: "element alpha 0.001 is below 0.010",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := readyElement()
			tt.mutate(el)

			ok, reason := v.Check(el)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
			assert.False(t, v.IsReady(el))
		})
	}
}

func TestCheckNilElement(t *testing.T) {
	v := NewValidator(0)
	ok, reason := v.Check(nil)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

func TestCheckReadyElement(t *testing.T) {
	v := NewValidator(0)
	ok, reason := v.Check(readyElement())
	assert.True(t, ok)
	assert.Empty(t, reason)
	assert.True(t, v.IsReady(readyElement()))
}

func TestCheckHiddenAncestor(t *testing.T) {
	v := NewValidator(0)

	parent := readyElement()
	parent.ID = "parent"
	parent.Visibility = element.Hidden
	child := readyElement()
	parent.AddChild(child)

	ok, reason := v.Check(child)
	assert.False(t, ok)
	assert.Equal(t, "element is hidden by an ancestor", reason)
}

func TestCheckWithRelaxedOptions(t *testing.T) {
	v := NewValidator(0)

	el := readyElement()
	el.Attached = false
	el.LaidOut = false

	ok, _ := v.CheckWith(el, Options{})
	assert.True(t, ok)

	ok, reason := v.CheckWith(el, Options{RequireAttached: true})
	require.False(t, ok)
	assert.Equal(t, "element is not attached to a display", reason)
}

func TestConfigurableAlphaThreshold(t *testing.T) {
	el := readyElement()
	el.Alpha = 0.05

	assert.True(t, NewValidator(0.01).IsReady(el))
	assert.False(t, NewValidator(0.1).IsReady(el))
}
