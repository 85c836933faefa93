package finder

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/sim"
)

// fakeClock is an injectable clock the tests advance by hand.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestFinder(clock *fakeClock) *Finder {
	return New(Options{Clock: clock.Now})
}

func TestFindBestPriority(t *testing.T) {
	tests := []struct {
		name     string
		children []*element.Element
		wantID   string
	}{
		{
			name: "media player beats hardware surface",
			children: []*element.Element{
				sim.NewFeed("feed", 320, 180),
				sim.NewMediaPlayer("player", 320, 180),
			},
			wantID: "player",
		},
		{
			name: "hardware surface beats web content",
			children: []*element.Element{
				sim.NewPage("page", 300, 300, 2),
				sim.NewFeed("feed", 320, 180),
			},
			wantID: "feed",
		},
		{
			name: "web content beats simple video",
			children: []*element.Element{
				sim.NewVideo("vid", 320, 180),
				sim.NewPage("page", 300, 300, 2),
			},
			wantID: "page",
		},
		{
			name: "simple video beats image",
			children: []*element.Element{
				sim.NewPicture("pic", 100, 100),
				sim.NewVideo("vid", 320, 180),
			},
			wantID: "vid",
		},
		{
			name: "image beats nothing else",
			children: []*element.Element{
				sim.NewBox("box", 100, 40, color.RGBA{A: 255}),
				sim.NewPicture("pic", 100, 100),
			},
			wantID: "pic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := sim.NewScreen("test", 1080, 1920)
			for _, child := range tt.children {
				screen.Root().AddChild(child)
			}

			f := New(Options{})
			best := f.FindBest(screen.Root(), false)
			require.NotNil(t, best)
			assert.Equal(t, tt.wantID, best.ID)
		})
	}
}

func TestFindBestRootFallback(t *testing.T) {
	screen := sim.NewScreen("test", 1080, 1920)
	screen.Root().AddChild(sim.NewBox("box", 100, 40, color.RGBA{A: 255}))

	f := New(Options{})
	best := f.FindBest(screen.Root(), false)
	assert.Equal(t, screen.Root(), best)
}

func TestFindBestNilRoot(t *testing.T) {
	f := New(Options{})
	assert.Nil(t, f.FindBest(nil, true))
}

func TestFindBestSkipsHiddenSubtrees(t *testing.T) {
	screen := sim.NewScreen("test", 1080, 1920)

	hiddenWrap := sim.NewBox("wrap", 400, 400, color.RGBA{A: 255})
	hiddenWrap.Visibility = element.Hidden
	hiddenWrap.AddChild(sim.NewFeed("hidden-feed", 320, 180))
	screen.Root().AddChild(hiddenWrap)
	screen.Root().AddChild(sim.NewPicture("pic", 100, 100))

	f := New(Options{})
	best := f.FindBest(screen.Root(), false)
	require.NotNil(t, best)
	assert.Equal(t, "pic", best.ID)
}

func TestFindBestMaxDepth(t *testing.T) {
	screen := sim.NewScreen("test", 1080, 1920)

	// Bury a feed below the depth bound.
	cur := screen.Root()
	for i := 0; i < 5; i++ {
		wrap := sim.NewBox("wrap", 400, 400, color.RGBA{A: 255})
		cur.AddChild(wrap)
		cur = wrap
	}
	cur.AddChild(sim.NewFeed("deep-feed", 320, 180))

	shallow := New(Options{MaxDepth: 3})
	assert.Equal(t, screen.Root(), shallow.FindBest(screen.Root(), false))

	deep := New(Options{MaxDepth: 10})
	best := deep.FindBest(screen.Root(), false)
	require.NotNil(t, best)
	assert.Equal(t, "deep-feed", best.ID)
}

func TestFindBestCacheHit(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	f := newTestFinder(clock)

	screen := sim.NewScreen("test", 1080, 1920)
	feed := sim.NewFeed("feed", 320, 180)
	screen.Root().AddChild(feed)

	best := f.FindBest(screen.Root(), true)
	require.Equal(t, feed, best)

	// A better candidate appears, but within the TTL the cached one
	// still wins.
	screen.Root().AddChild(sim.NewMediaPlayer("player", 320, 180))
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, feed, f.FindBest(screen.Root(), true))

	// Past the TTL the tree is re-walked.
	clock.Advance(500 * time.Millisecond)
	best = f.FindBest(screen.Root(), true)
	require.NotNil(t, best)
	assert.Equal(t, "player", best.ID)
}

func TestFindBestCacheBypass(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	f := newTestFinder(clock)

	screen := sim.NewScreen("test", 1080, 1920)
	screen.Root().AddChild(sim.NewFeed("feed", 320, 180))

	f.FindBest(screen.Root(), true)
	screen.Root().AddChild(sim.NewMediaPlayer("player", 320, 180))

	best := f.FindBest(screen.Root(), false)
	require.NotNil(t, best)
	assert.Equal(t, "player", best.ID)
}

func TestFindBestCacheRejectsHiddenCandidate(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	f := newTestFinder(clock)

	screen := sim.NewScreen("test", 1080, 1920)
	feed := sim.NewFeed("feed", 320, 180)
	screen.Root().AddChild(feed)
	screen.Root().AddChild(sim.NewPicture("pic", 100, 100))

	require.Equal(t, feed, f.FindBest(screen.Root(), true))

	// Hiding the cached candidate forces a fresh walk even within the
	// TTL.
	feed.Visibility = element.Hidden
	best := f.FindBest(screen.Root(), true)
	require.NotNil(t, best)
	assert.Equal(t, "pic", best.ID)
}

func TestInvalidate(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	f := newTestFinder(clock)

	screen := sim.NewScreen("test", 1080, 1920)
	feed := sim.NewFeed("feed", 320, 180)
	screen.Root().AddChild(feed)

	require.Equal(t, feed, f.FindBest(screen.Root(), true))
	screen.Root().AddChild(sim.NewMediaPlayer("player", 320, 180))

	f.Invalidate(screen.Root())
	best := f.FindBest(screen.Root(), true)
	require.NotNil(t, best)
	assert.Equal(t, "player", best.ID)
}

func TestInvalidateAll(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	f := newTestFinder(clock)

	a := sim.NewScreen("a", 500, 500)
	a.Root().AddChild(sim.NewFeed("feed-a", 320, 180))
	b := sim.NewScreen("b", 500, 500)
	b.Root().AddChild(sim.NewFeed("feed-b", 320, 180))

	f.FindBest(a.Root(), true)
	f.FindBest(b.Root(), true)

	a.Root().AddChild(sim.NewMediaPlayer("player-a", 320, 180))
	b.Root().AddChild(sim.NewMediaPlayer("player-b", 320, 180))

	f.InvalidateAll()
	assert.Equal(t, "player-a", f.FindBest(a.Root(), true).ID)
	assert.Equal(t, "player-b", f.FindBest(b.Root(), true).ID)
}
