package capture

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/permission"
	"github.com/viewsnap/viewsnap/internal/sim"
	"github.com/viewsnap/viewsnap/internal/storage"
)

type testEnv struct {
	orch   *Orchestrator
	screen *sim.Screen
	fs     afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	screen := sim.NewDemoScreen()
	fs := afero.NewMemMapFs()
	orch := New(Options{
		Store:       storage.NewFileStore(fs, "/captures"),
		Permissions: permission.NewStatic("/captures", false),
		Host:        screen.Ref(),
	})
	t.Cleanup(orch.Shutdown)
	return &testEnv{orch: orch, screen: screen, fs: fs}
}

func findByID(root *element.Element, id string) *element.Element {
	if root.ID == id {
		return root
	}
	for _, child := range root.Children() {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func fastConfig() *Builder {
	return NewConfig().StabilizationDelay(0)
}

func TestCaptureReturnsFrame(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")
	require.NotNil(t, box)

	cfg, err := fastConfig().Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)
	defer res.Frame.Release()

	assert.Empty(t, res.Path)
	assert.Equal(t, 1080, res.Frame.Width())
	assert.Equal(t, 120, res.Frame.Height())
}

func TestCaptureAutoDetectsElement(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := fastConfig().Build()
	require.NoError(t, err)

	// The demo screen contains a media player, which outranks every
	// other candidate.
	res, err := env.orch.Capture(context.Background(), nil, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)
	defer res.Frame.Release()

	assert.Equal(t, 1280, res.Frame.Width())
	assert.Equal(t, 720, res.Frame.Height())
}

func TestCaptureAndSave(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")

	cfg, err := fastConfig().SaveTo("", "label-shot").Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)
	defer res.Frame.Release()

	require.NotEmpty(t, res.Path)
	exists, err := afero.Exists(env.fs, res.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCaptureSaveWithAutoRelease(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")

	cfg, err := fastConfig().SaveTo("", "").AutoRelease(true).Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Path)
	assert.Nil(t, res.Frame)
}

func TestCaptureWithoutReturnFrame(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")

	cfg, err := fastConfig().SaveTo("", "").ReturnFrame(false).Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Path)
	assert.Nil(t, res.Frame)
}

func TestCaptureNotReadyElement(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")
	box.Visibility = element.Hidden

	cfg, err := fastConfig().Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	assert.Nil(t, res)
	require.True(t, caperr.IsKind(err, caperr.KindNotReady), "got %v", err)
	assert.Contains(t, err.Error(), "invalid element state")
}

func TestCapturePermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")

	cfg, err := fastConfig().SaveTo("/sdcard/pictures", "shot").Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), box, cfg)
	assert.Nil(t, res)
	assert.True(t, caperr.IsKind(err, caperr.KindPermissionDenied), "got %v", err)
}

func TestCapturePermissionGranted(t *testing.T) {
	screen := sim.NewDemoScreen()
	fs := afero.NewMemMapFs()
	orch := New(Options{
		Store:       storage.NewFileStore(fs, "/captures"),
		Permissions: permission.NewStatic("/captures", true),
		Host:        screen.Ref(),
	})
	t.Cleanup(orch.Shutdown)

	box := findByID(screen.Root(), "label")
	cfg, err := fastConfig().SaveTo("/sdcard/pictures", "shot").AutoRelease(true).Build()
	require.NoError(t, err)

	res, err := orch.Capture(context.Background(), box, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Path)
}

func TestCaptureAfterHostTeardown(t *testing.T) {
	env := newTestEnv(t)
	env.screen.Teardown()

	cfg, err := fastConfig().Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), nil, cfg)
	assert.Nil(t, res)
	assert.True(t, caperr.IsKind(err, caperr.KindContextGone), "got %v", err)
}

func TestCaptureCancellationPropagates(t *testing.T) {
	env := newTestEnv(t)
	feed := findByID(env.screen.Root(), "feed")
	require.NotNil(t, feed)

	cfg, err := NewConfig().StabilizationDelay(5 * time.Second).Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	res, err := env.orch.Capture(ctx, feed, cfg)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, caperr.Kind(""), caperr.KindOf(err))
}

func TestShutdownCancelsInFlightCapture(t *testing.T) {
	env := newTestEnv(t)
	feed := findByID(env.screen.Root(), "feed")

	cfg, err := NewConfig().StabilizationDelay(5 * time.Second).Build()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := env.orch.Capture(context.Background(), feed, cfg)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	env.orch.Shutdown()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("capture did not unblock after shutdown")
	}
}

func TestCaptureAfterShutdown(t *testing.T) {
	env := newTestEnv(t)
	env.orch.Shutdown()
	env.orch.Shutdown() // idempotent

	cfg, err := fastConfig().Build()
	require.NoError(t, err)

	res, err := env.orch.Capture(context.Background(), nil, cfg)
	assert.Nil(t, res)
	assert.True(t, caperr.IsKind(err, caperr.KindDisposed), "got %v", err)

	_, err = env.orch.CaptureFrameOnly(context.Background(), nil, false)
	assert.True(t, caperr.IsKind(err, caperr.KindDisposed), "got %v", err)
}

func TestCaptureFrameOnly(t *testing.T) {
	env := newTestEnv(t)
	box := findByID(env.screen.Root(), "label")

	fr, err := env.orch.CaptureFrameOnly(context.Background(), box, true)
	require.NoError(t, err)
	defer fr.Release()

	assert.Equal(t, 1080, fr.Width())
	assert.Equal(t, 120, fr.Height())
}

func TestCaptureWithoutStoreConfigured(t *testing.T) {
	screen := sim.NewDemoScreen()
	orch := New(Options{Host: screen.Ref()})
	t.Cleanup(orch.Shutdown)

	box := findByID(screen.Root(), "label")
	cfg, err := fastConfig().SaveTo("/captures", "shot").Build()
	require.NoError(t, err)

	res, err := orch.Capture(context.Background(), box, cfg)
	assert.Nil(t, res)
	assert.True(t, caperr.IsKind(err, caperr.KindStorageError), "got %v", err)
}

func TestFindBestAndInvalidate(t *testing.T) {
	env := newTestEnv(t)
	root := env.screen.Root()

	best := env.orch.FindBest(root)
	require.NotNil(t, best)
	assert.Equal(t, "player", best.ID)

	env.orch.Invalidate(root)
	env.orch.InvalidateAll()
	assert.Equal(t, "player", env.orch.FindBest(root).ID)
}
