package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Backend is the slice of the external enforcement API the controller
// depends on. Every call honors its context; an aborted call returns the
// context error, which the controller treats as "no response".
type Backend interface {
	ListQueue(ctx context.Context, filter Filter, limit int) (Page, error)
	SubmitDecision(ctx context.Context, id string, action Action, opts DecisionOptions) error
	SubmitBulk(ctx context.Context, action Action, ids []string, reason string) error
}

// DecisionOptions carries the optional payload of a single-item action.
type DecisionOptions struct {
	CorrectedVRM string
	Notes        string
}

// DefaultPageSize matches the server's default queue page.
const DefaultPageSize = 50

// Controller owns the queue state for one review surface: the filter, the
// snapshot and cursor, the selection set, and the per-category in-flight
// request bookkeeping.
//
// Not safe for concurrent use. All methods belong to a single event loop;
// only ticket Run calls are intended to run off-loop.
type Controller struct {
	log      *slog.Logger
	backend  Backend
	pageSize int

	filter Filter
	snap   Snapshot
	sel    Selection

	queueEpoch  uint64
	queueCancel context.CancelFunc

	// submitting holds the cancel for each item id with a decision in
	// flight. One decision per id at a time; different ids may overlap.
	submitting map[string]context.CancelFunc

	closed bool
}

// ControllerOption adjusts controller construction.
type ControllerOption func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger.With("component", "review")
		}
	}
}

// WithPageSize overrides the queue page size.
func WithPageSize(size int) ControllerOption {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewController builds a controller over the given backend, scoped to the
// given initial filter.
func NewController(backend Backend, filter Filter, opts ...ControllerOption) *Controller {
	c := &Controller{
		log:        slog.New(slog.DiscardHandler),
		backend:    backend,
		pageSize:   DefaultPageSize,
		filter:     filter.Normalized(),
		submitting: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filter returns the current filter value.
func (c *Controller) Filter() Filter { return c.filter }

// SetFilter replaces the filter. A changed filter clears the selection; the
// caller is expected to follow with BeginRefresh.
func (c *Controller) SetFilter(filter Filter) error {
	normalized := filter.Normalized()
	if err := normalized.Validate(); err != nil {
		return err
	}
	if !normalized.Equal(c.filter) {
		c.sel.Clear()
	}
	c.filter = normalized
	return nil
}

// Snapshot exposes the queue snapshot for cursor movement and rendering.
func (c *Controller) Snapshot() *Snapshot { return &c.snap }

// Selection exposes the bulk selection set.
func (c *Controller) Selection() *Selection { return &c.sel }

// Current returns the item under the cursor.
func (c *Controller) Current() (Item, bool) { return c.snap.Current() }

// Submitting reports whether id has a decision in flight.
func (c *Controller) Submitting(id string) bool {
	_, ok := c.submitting[id]
	return ok
}

// SubmittingAny reports whether any decision is in flight.
func (c *Controller) SubmittingAny() bool { return len(c.submitting) > 0 }

// Skip advances the cursor without a network call. The skipped item returns
// to the queue on the next full refresh.
func (c *Controller) Skip() bool { return c.snap.Advance() }

// Close aborts every outstanding request of every category. Responses that
// arrive later are dropped by the Finish methods.
func (c *Controller) Close() {
	c.closed = true
	if c.queueCancel != nil {
		c.queueCancel()
		c.queueCancel = nil
	}
	c.queueEpoch++
	for id, cancel := range c.submitting {
		cancel()
		delete(c.submitting, id)
	}
}

// FetchTicket is one in-flight queue fetch, pinned to its epoch.
type FetchTicket struct {
	epoch  uint64
	keepID string
	filter Filter
	ctx    context.Context
	run    func(context.Context) (Page, error)
}

// Run performs the blocking list call.
func (t *FetchTicket) Run() (Page, error) { return t.run(t.ctx) }

// BeginRefresh aborts any in-flight queue fetch and opens a new one for the
// current filter. With keepPosition, the current item id is remembered and
// the cursor is restored to it after the snapshot is replaced; otherwise the
// cursor resets to 0.
func (c *Controller) BeginRefresh(keepPosition bool) *FetchTicket {
	if c.queueCancel != nil {
		c.queueCancel()
		c.queueCancel = nil
	}
	c.queueEpoch++

	var keepID string
	if keepPosition {
		if current, ok := c.snap.Current(); ok {
			keepID = current.ID
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.queueCancel = cancel

	filter := c.filter
	pageSize := c.pageSize
	backend := c.backend
	return &FetchTicket{
		epoch:  c.queueEpoch,
		keepID: keepID,
		filter: filter,
		ctx:    ctx,
		run: func(ctx context.Context) (Page, error) {
			return backend.ListQueue(ctx, filter, pageSize)
		},
	}
}

// RefreshOutcome classifies FinishRefresh results.
type RefreshOutcome int

const (
	// RefreshStale means the response belonged to a superseded fetch and
	// was silently dropped.
	RefreshStale RefreshOutcome = iota
	// RefreshFailed means the fetch failed; the previous snapshot is
	// retained.
	RefreshFailed
	// RefreshApplied means the snapshot was replaced.
	RefreshApplied
)

// FinishRefresh applies a completed fetch. A response whose epoch is no
// longer current is discarded: cancellation is not an error.
func (c *Controller) FinishRefresh(t *FetchTicket, page Page, err error) (RefreshOutcome, error) {
	if t == nil || t.epoch != c.queueEpoch || c.closed {
		return RefreshStale, nil
	}
	// The fetch has settled; release its context.
	if c.queueCancel != nil {
		c.queueCancel()
		c.queueCancel = nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return RefreshStale, nil
		}
		c.log.Warn("queue fetch failed", "error", err)
		return RefreshFailed, Wrap(ErrFetchFailed, "queue", "list", "", err)
	}

	c.snap = NewSnapshot(page.Items, page.Total)
	if t.keepID != "" {
		c.snap.JumpTo(t.keepID)
	}
	c.sel.Prune(&c.snap)
	c.log.Debug("queue snapshot replaced", "loaded", c.snap.Len(), "total", c.snap.Total())
	return RefreshApplied, nil
}

// DecisionTicket is one in-flight single-item decision.
type DecisionTicket struct {
	id     string
	action Action
	ctx    context.Context
	run    func(context.Context) error
}

// ItemID returns the acted-on item id.
func (t *DecisionTicket) ItemID() string { return t.id }

// Action returns the submitted action.
func (t *DecisionTicket) Action() Action { return t.action }

// Run performs the blocking submit call.
func (t *DecisionTicket) Run() error { return t.run(t.ctx) }

// BeginDecision validates and opens a decision submission for the current
// item. Correct requires a non-empty corrected value; a second action on an
// item already submitting is rejected client-side.
func (c *Controller) BeginDecision(action Action, opts DecisionOptions) (*DecisionTicket, error) {
	current, ok := c.snap.Current()
	if !ok {
		return nil, ErrQueueEmpty
	}
	return c.beginDecisionFor(current.ID, action, opts)
}

func (c *Controller) beginDecisionFor(id string, action Action, opts DecisionOptions) (*DecisionTicket, error) {
	if action == ActionSkip {
		return nil, errors.New("skip is local: use Skip")
	}
	if action == ActionCorrect && strings.TrimSpace(opts.CorrectedVRM) == "" {
		return nil, ErrCorrectionMissing
	}
	if _, inflight := c.submitting[id]; inflight {
		return nil, ErrAlreadySubmitting
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.submitting[id] = cancel

	backend := c.backend
	return &DecisionTicket{
		id:     id,
		action: action,
		ctx:    ctx,
		run: func(ctx context.Context) error {
			return backend.SubmitDecision(ctx, id, action, opts)
		},
	}, nil
}

// DecisionOutcome classifies FinishDecision and FinishBulk results.
type DecisionOutcome int

const (
	// DecisionCancelled means the submission was aborted at teardown.
	DecisionCancelled DecisionOutcome = iota
	// DecisionFailed means the server declined; the item stays queued.
	DecisionFailed
	// DecisionApplied means the item (or batch) was removed from the
	// snapshot and the cursor re-clamped.
	DecisionApplied
)

// FinishDecision applies a completed single-item submission. On success the
// acted-on item is removed wherever it sits and the cursor re-clamped; the
// caller should re-run audit reconstruction for the new current item.
func (c *Controller) FinishDecision(t *DecisionTicket, err error) (DecisionOutcome, error) {
	if t == nil {
		return DecisionCancelled, nil
	}
	if cancel, ok := c.submitting[t.id]; ok {
		delete(c.submitting, t.id)
		defer cancel()
	}
	if c.closed {
		return DecisionCancelled, nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return DecisionCancelled, nil
		}
		c.log.Warn("decision rejected", "item", t.id, "action", string(t.action), "error", err)
		return DecisionFailed, Wrap(ErrDecisionRejected, "decision", string(t.action), "", err)
	}

	c.snap.RemoveByID(t.id)
	c.sel.Prune(&c.snap)
	c.log.Info("decision applied", "item", t.id, "action", string(t.action), "remaining", c.snap.Len())
	return DecisionApplied, nil
}

// BulkTicket is one in-flight batch submission.
type BulkTicket struct {
	action Action
	ids    []string
	ctx    context.Context
	run    func(context.Context) error
}

// IDs returns the batch item ids.
func (t *BulkTicket) IDs() []string { return t.ids }

// Action returns the submitted action.
func (t *BulkTicket) Action() Action { return t.action }

// Run performs the blocking bulk call.
func (t *BulkTicket) Run() error { return t.run(t.ctx) }

// BeginBulk opens a batch submission for the current selection. The batch is
// treated as atomic from the client's point of view: either every id is
// removed on success, or none is.
func (c *Controller) BeginBulk(action Action, reason string) (*BulkTicket, error) {
	if !action.Bulkable() {
		return nil, errors.New("action has no bulk variant")
	}
	ids := c.sel.IDs()
	if len(ids) == 0 {
		return nil, ErrSelectionEmpty
	}
	for _, id := range ids {
		if _, inflight := c.submitting[id]; inflight {
			return nil, ErrAlreadySubmitting
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	for _, id := range ids {
		c.submitting[id] = cancel
	}

	backend := c.backend
	return &BulkTicket{
		action: action,
		ids:    ids,
		ctx:    ctx,
		run: func(ctx context.Context) error {
			return backend.SubmitBulk(ctx, action, ids, reason)
		},
	}, nil
}

// FinishBulk applies a completed batch submission. On success every id in
// the batch is removed and the selection cleared; on failure nothing is
// removed and one error covers the batch.
func (c *Controller) FinishBulk(t *BulkTicket, err error) (DecisionOutcome, error) {
	if t == nil {
		return DecisionCancelled, nil
	}
	var cancel context.CancelFunc
	for _, id := range t.ids {
		if fn, ok := c.submitting[id]; ok {
			cancel = fn
			delete(c.submitting, id)
		}
	}
	if cancel != nil {
		defer cancel()
	}
	if c.closed {
		return DecisionCancelled, nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return DecisionCancelled, nil
		}
		c.log.Warn("bulk action rejected", "action", string(t.action), "count", len(t.ids), "error", err)
		return DecisionFailed, Wrap(ErrDecisionRejected, "bulk", string(t.action), "", err)
	}

	removed := c.snap.RemoveMany(t.ids)
	c.sel.Clear()
	c.log.Info("bulk action applied", "action", string(t.action), "removed", removed, "remaining", c.snap.Len())
	return DecisionApplied, nil
}
