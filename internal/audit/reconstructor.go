package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sources abstracts the audit endpoints of the enforcement API.
type Sources interface {
	VehicleAudit(ctx context.Context, vrm, siteID string, from, to time.Time, limit int) ([]Entry, error)
	SessionAudit(ctx context.Context, sessionID string) ([]Entry, error)
	DecisionAudit(ctx context.Context, decisionID string) ([]Entry, error)
}

// DefaultWindowMargin widens the vehicle search window on each side of the
// session entry/exit times.
const DefaultWindowMargin = time.Hour

// DefaultEntryLimit bounds the vehicle-scoped search.
const DefaultEntryLimit = 200

// Reconstructor fetches and merges audit streams for the item currently in
// focus. Starting a new reconstruction aborts the previous one; a job whose
// epoch has been superseded by the time it completes is discarded by Accept.
//
// Not safe for concurrent use: Begin, Accept, and Close belong to a single
// event loop. Job.Run is the only part intended to run off-loop.
type Reconstructor struct {
	sources Sources
	margin  time.Duration
	limit   int
	log     *slog.Logger

	epoch  uint64
	cancel context.CancelFunc
}

// Option adjusts Reconstructor construction.
type Option func(*Reconstructor)

// WithWindowMargin overrides the vehicle search window margin.
func WithWindowMargin(margin time.Duration) Option {
	return func(r *Reconstructor) {
		if margin > 0 {
			r.margin = margin
		}
	}
}

// WithEntryLimit overrides the vehicle search entry limit.
func WithEntryLimit(limit int) Option {
	return func(r *Reconstructor) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithLogger attaches a logger for degraded-source diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) {
		if logger != nil {
			r.log = logger.With("component", "audit")
		}
	}
}

// NewReconstructor builds a Reconstructor over the given sources.
func NewReconstructor(sources Sources, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		sources: sources,
		margin:  DefaultWindowMargin,
		limit:   DefaultEntryLimit,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Job is one in-flight reconstruction, pinned to the epoch it was issued at.
type Job struct {
	r     *Reconstructor
	key   Key
	epoch uint64
	ctx   context.Context
}

// Begin cancels any in-flight reconstruction and opens a new job for key.
func (r *Reconstructor) Begin(key Key) *Job {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.epoch++
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	return &Job{r: r, key: key, epoch: r.epoch, ctx: ctx}
}

// Accept reports whether the job is still the most recent reconstruction.
// Stale jobs must be dropped without touching state.
func (r *Reconstructor) Accept(j *Job) bool {
	if j == nil || j.epoch != r.epoch {
		return false
	}
	// The job has settled; release its context.
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return true
}

// Close aborts any outstanding reconstruction.
func (r *Reconstructor) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.epoch++
}

// Epoch exposes the current epoch for tests.
func (r *Reconstructor) Epoch() uint64 { return r.epoch }

// Run fans out to every applicable source, waits for all to settle, and
// returns the merged timeline. A failed source contributes zero entries; Run
// only returns an error when the job itself was cancelled.
func (j *Job) Run() ([]Entry, error) {
	key := j.key
	if !key.Correlatable() {
		// Nothing to correlate on: immediate empty result, no network calls.
		return nil, nil
	}

	var vehicle, session, decision []Entry
	group, ctx := errgroup.WithContext(j.ctx)

	group.Go(func() error {
		from, to := j.r.window(key)
		entries, err := j.r.sources.VehicleAudit(ctx, NormalizeVRM(key.VRM), key.SiteID, from, to, j.r.limit)
		if err != nil {
			return j.r.tolerate(StreamVehicle, err)
		}
		vehicle = tagged(entries, StreamVehicle)
		return nil
	})
	if key.SessionID != "" {
		group.Go(func() error {
			entries, err := j.r.sources.SessionAudit(ctx, key.SessionID)
			if err != nil {
				return j.r.tolerate(StreamSession, err)
			}
			session = tagged(entries, StreamSession)
			return nil
		})
	}
	if key.DecisionID != "" {
		group.Go(func() error {
			entries, err := j.r.sources.DecisionAudit(ctx, key.DecisionID)
			if err != nil {
				return j.r.tolerate(StreamDecision, err)
			}
			decision = tagged(entries, StreamDecision)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := j.ctx.Err(); err != nil {
		return nil, err
	}
	return Merge(vehicle, session, decision), nil
}

func (r *Reconstructor) window(key Key) (time.Time, time.Time) {
	var from, to time.Time
	if !key.EntryTime.IsZero() {
		from = key.EntryTime.Add(-r.margin)
	}
	if !key.ExitTime.IsZero() {
		to = key.ExitTime.Add(r.margin)
	}
	return from, to
}

// tolerate downgrades a source failure to a missing source unless the whole
// job was cancelled, which must still abort the group.
func (r *Reconstructor) tolerate(stream Stream, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	r.log.Debug("audit source degraded", "stream", string(stream), "error", err)
	return nil
}

func tagged(entries []Entry, stream Stream) []Entry {
	for i := range entries {
		if entries[i].Stream == "" {
			entries[i].Stream = stream
		}
	}
	return entries
}
