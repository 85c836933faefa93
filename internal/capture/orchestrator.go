package capture

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/finder"
	"github.com/viewsnap/viewsnap/internal/frame"
	"github.com/viewsnap/viewsnap/internal/host"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/permission"
	"github.com/viewsnap/viewsnap/internal/readiness"
	"github.com/viewsnap/viewsnap/internal/storage"
	"github.com/viewsnap/viewsnap/internal/strategy"
)

// Result is a successful capture: the persisted path when a save was
// requested, and the frame when the config returns it. The caller owns
// a returned frame and is responsible for releasing it.
type Result struct {
	Path  string
	Frame *frame.Frame
}

// Options wire an Orchestrator. Nil fields get working defaults except
// Store, which is required only when captures persist.
type Options struct {
	Registry    *strategy.Registry
	Finder      *finder.Finder
	Readiness   *readiness.Validator
	Store       storage.Store
	Permissions permission.Checker
	Host        *host.Ref
}

// Orchestrator coordinates capture requests. It is reusable across many
// requests and safe for concurrent use on independent elements; callers
// must serialize concurrent captures of the same element themselves.
type Orchestrator struct {
	registry  *strategy.Registry
	finder    *finder.Finder
	readiness *readiness.Validator
	store     storage.Store
	perms     permission.Checker
	hostRef   *host.Ref

	baseCtx   context.Context
	cancelAll context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Readiness == nil {
		opts.Readiness = readiness.NewValidator(0)
	}
	if opts.Registry == nil {
		opts.Registry = strategy.NewRegistry(frame.NewValidator(frame.ValidatorOptions{}))
	}
	if opts.Finder == nil {
		opts.Finder = finder.New(finder.Options{})
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		registry:  opts.Registry,
		finder:    opts.Finder,
		readiness: opts.Readiness,
		store:     opts.Store,
		perms:     opts.Permissions,
		hostRef:   opts.Host,
		baseCtx:   baseCtx,
		cancelAll: cancel,
	}
}

// Capture runs one capture request through the full pipeline. A nil el
// asks the finder to auto-detect the best element under the host root.
//
// Cancellation of ctx (or Shutdown while in flight) propagates as the
// context's error, never as a capture failure.
func (o *Orchestrator) Capture(ctx context.Context, el *element.Element, cfg Config) (*Result, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	// Shutdown cancels every in-flight request through baseCtx.
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(o.baseCtx, cancel)
	defer stop()

	req := newRequest()
	req.advance(stateValidating)

	target, err := o.resolveTarget(el)
	if err != nil {
		req.fail(err)
		return nil, err
	}
	if ok, reason := o.readiness.Check(target); !ok {
		err := caperr.New(caperr.KindNotReady, "invalid element state: %s", reason)
		req.fail(err)
		return nil, err
	}

	if cfg.Save() && o.perms != nil && o.perms.IsPermissionNeeded(cfg.Dir()) && !o.perms.HasPermission() {
		err := caperr.New(caperr.KindPermissionDenied,
			"location %s requires an authorization the host has not granted", cfg.Dir())
		req.fail(err)
		return nil, err
	}

	req.advance(stateExtracting)
	fr, err := o.extract(reqCtx, target, cfg.strategyOptions())
	if err != nil {
		if reqCtx.Err() != nil {
			return nil, reqCtx.Err()
		}
		req.fail(err)
		return nil, err
	}

	var path string
	if cfg.Save() {
		req.advance(statePersisting)
		path, err = o.persist(reqCtx, fr, cfg)
		if err != nil {
			// Disposal policy applies on failure too; a failed request
			// returns no frame, so the orchestrator releases it.
			fr.Release()
			if reqCtx.Err() != nil {
				return nil, reqCtx.Err()
			}
			req.fail(err)
			return nil, err
		}
	}

	result := &Result{Path: path}
	switch {
	case !cfg.ReturnFrame():
		fr.Release()
	case cfg.Save() && cfg.AutoRelease():
		fr.Release()
	default:
		// Ownership transfers to the caller.
		result.Frame = fr
	}

	req.advance(stateCompleted)
	return result, nil
}

// CaptureFrameOnly extracts a frame with no persistence. The caller
// owns the returned frame.
func (o *Orchestrator) CaptureFrameOnly(ctx context.Context, el *element.Element, includeBackground bool) (*frame.Frame, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(o.baseCtx, cancel)
	defer stop()

	target, err := o.resolveTarget(el)
	if err != nil {
		return nil, err
	}
	if ok, reason := o.readiness.Check(target); !ok {
		return nil, caperr.New(caperr.KindNotReady, "invalid element state: %s", reason)
	}
	fr, err := o.extract(reqCtx, target, strategy.Options{IncludeBackground: includeBackground})
	if err != nil && reqCtx.Err() != nil {
		return nil, reqCtx.Err()
	}
	return fr, err
}

// FindBest resolves the best capturable element under root via the
// finder's cache.
func (o *Orchestrator) FindBest(root *element.Element) *element.Element {
	return o.finder.FindBest(root, true)
}

// Invalidate busts the finder cache for one root.
func (o *Orchestrator) Invalidate(root *element.Element) {
	o.finder.Invalidate(root)
}

// InvalidateAll busts the entire finder cache.
func (o *Orchestrator) InvalidateAll() {
	o.finder.InvalidateAll()
}

// Shutdown cancels any in-flight request and rejects all further
// requests with a Disposed error.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	alreadyClosed := o.closed
	o.closed = true
	o.mu.Unlock()
	if alreadyClosed {
		return
	}
	o.cancelAll()
	logger.WithComponent("orchestrator").Info().Msg("Orchestrator shut down")
}

func (o *Orchestrator) checkOpen() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return caperr.New(caperr.KindDisposed, "orchestrator has been shut down")
	}
	return nil
}

// resolveTarget returns the explicit element, or auto-detects one under
// the host root. A host handle that has expired means the owning
// context is gone.
func (o *Orchestrator) resolveTarget(el *element.Element) (*element.Element, error) {
	if o.hostRef != nil {
		if _, alive := o.hostRef.Get(); !alive {
			return nil, caperr.New(caperr.KindContextGone, "host context no longer exists")
		}
	}
	if el != nil {
		return el, nil
	}
	if o.hostRef == nil {
		return nil, caperr.New(caperr.KindNotReady, "no element given and no host to search")
	}
	h, _ := o.hostRef.Get()
	root := h.Root()
	if root == nil {
		return nil, caperr.New(caperr.KindNotReady, "host %s has no view tree", h.Name())
	}
	return o.finder.FindBest(root, true), nil
}

func (o *Orchestrator) extract(ctx context.Context, el *element.Element, opts strategy.Options) (*frame.Frame, error) {
	s, err := o.registry.Select(el)
	if err != nil {
		return nil, err
	}
	return s.Capture(ctx, el, opts)
}

// persist hands the frame to the store on a background context,
// staying cancellable during the I/O.
func (o *Orchestrator) persist(ctx context.Context, fr *frame.Frame, cfg Config) (string, error) {
	if o.store == nil {
		return "", caperr.New(caperr.KindStorageError, "no store configured")
	}
	img, err := fr.Image()
	if err != nil {
		return "", caperr.Wrap(caperr.KindStorageError, err, "frame unreadable")
	}

	type saveResult struct {
		path string
		err  error
	}
	done := make(chan saveResult, 1)
	go func() {
		path, err := o.store.Save(ctx, img, storage.SaveOptions{
			Format:  cfg.Format(),
			Quality: cfg.Quality(),
			Dir:     cfg.Dir(),
			Name:    cfg.Name(),
		})
		done <- saveResult{path, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.path, res.err
	}
}

// request is the per-call state tracker. State is advisory: it drives
// logging and guards against impossible transitions during development.
type request struct {
	id    string
	state requestState
	log   *zerolog.Logger
}

func newRequest() *request {
	id := uuid.NewString()[:8]
	l := logger.WithComponent("orchestrator")
	return &request{id: id, state: stateIdle, log: l}
}

func (r *request) advance(to requestState) {
	if !canTransition(r.state, to) {
		r.log.Warn().
			Str("request", r.id).
			Str("from", r.state.String()).
			Str("to", to.String()).
			Msg("Unexpected state transition")
	}
	r.log.Debug().
		Str("request", r.id).
		Str("state", to.String()).
		Msg("Request state")
	r.state = to
}

func (r *request) fail(err error) {
	r.log.Debug().
		Str("request", r.id).
		Str("from", r.state.String()).
		Err(err).
		Msg("Request failed")
	r.state = stateFailed
}
