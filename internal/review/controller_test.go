package review

import (
	"context"
	"errors"
	"testing"
)

// backendStub records calls and serves canned pages. List responses can be
// swapped between BeginRefresh and Run to simulate interleavings.
type backendStub struct {
	page    Page
	listErr error

	listCalls   int
	decisions   []string
	bulkIDs     []string
	decisionErr error
	bulkErr     error

	lastCtx context.Context
}

func (b *backendStub) ListQueue(ctx context.Context, _ Filter, _ int) (Page, error) {
	b.listCalls++
	b.lastCtx = ctx
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	return b.page, b.listErr
}

func (b *backendStub) SubmitDecision(ctx context.Context, id string, _ Action, _ DecisionOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.decisions = append(b.decisions, id)
	return b.decisionErr
}

func (b *backendStub) SubmitBulk(ctx context.Context, _ Action, ids []string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.bulkIDs = ids
	return b.bulkErr
}

func pageOf(ids ...string) Page {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{Kind: KindDecision, ID: id, VRM: "AB12CDE", SiteID: "S1"})
	}
	return Page{Items: items, Total: len(items)}
}

func refreshedController(t *testing.T, backend *backendStub) *Controller {
	t.Helper()
	ctl := NewController(backend, Filter{Surface: SurfaceDecisions})
	ticket := ctl.BeginRefresh(false)
	page, err := ticket.Run()
	outcome, err := ctl.FinishRefresh(ticket, page, err)
	if err != nil || outcome != RefreshApplied {
		t.Fatalf("initial refresh: outcome=%v err=%v", outcome, err)
	}
	return ctl
}

func TestSupersededFetchIsAbortedAndDiscarded(t *testing.T) {
	backend := &backendStub{page: pageOf("old1", "old2")}
	ctl := NewController(backend, Filter{Surface: SurfaceDecisions})

	// Fetch for the old filter is in flight when the filter changes.
	oldTicket := ctl.BeginRefresh(false)
	oldPage, oldErr := oldTicket.Run()

	if err := ctl.SetFilter(Filter{Surface: SurfaceDecisions, SiteIDs: []string{"S1"}}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	backend.page = pageOf("new1")
	newTicket := ctl.BeginRefresh(false)

	// The old request's context was aborted, not merely ignored.
	if err := oldTicket.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("old ticket ctx err = %v, want canceled", err)
	}

	// The old response resolves late: it must never be applied.
	outcome, err := ctl.FinishRefresh(oldTicket, oldPage, oldErr)
	if outcome != RefreshStale || err != nil {
		t.Fatalf("stale finish: outcome=%v err=%v", outcome, err)
	}
	if ctl.Snapshot().Len() != 0 {
		t.Fatal("stale response populated the snapshot")
	}

	newPage, newErr := newTicket.Run()
	outcome, err = ctl.FinishRefresh(newTicket, newPage, newErr)
	if outcome != RefreshApplied || err != nil {
		t.Fatalf("current finish: outcome=%v err=%v", outcome, err)
	}
	current, _ := ctl.Current()
	if current.ID != "new1" {
		t.Fatalf("current = %s, want new1", current.ID)
	}
}

func TestFinishRefreshReleasesTicketContext(t *testing.T) {
	backend := &backendStub{page: pageOf("a")}
	ctl := NewController(backend, Filter{Surface: SurfaceDecisions})

	ticket := ctl.BeginRefresh(false)
	page, err := ticket.Run()
	if _, err := ctl.FinishRefresh(ticket, page, err); err != nil {
		t.Fatalf("FinishRefresh: %v", err)
	}
	if err := ticket.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("applied ticket ctx err = %v, want canceled", err)
	}

	backend.listErr = errors.New("boom")
	ticket = ctl.BeginRefresh(false)
	page, err = ticket.Run()
	if outcome, _ := ctl.FinishRefresh(ticket, page, err); outcome != RefreshFailed {
		t.Fatalf("outcome = %v, want RefreshFailed", outcome)
	}
	if err := ticket.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("failed ticket ctx err = %v, want canceled", err)
	}
}

func TestFailedRefreshRetainsPreviousSnapshot(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b")}
	ctl := refreshedController(t, backend)

	backend.listErr = errors.New("boom")
	ticket := ctl.BeginRefresh(false)
	page, err := ticket.Run()
	outcome, ferr := ctl.FinishRefresh(ticket, page, err)

	if outcome != RefreshFailed {
		t.Fatalf("outcome = %v, want RefreshFailed", outcome)
	}
	if !errors.Is(ferr, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", ferr)
	}
	if ctl.Snapshot().Len() != 2 {
		t.Fatal("failed refresh blanked the snapshot")
	}
}

func TestPositionPreservingRefresh(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b", "c")}
	ctl := refreshedController(t, backend)
	ctl.Snapshot().JumpTo("b")

	backend.page = pageOf("x", "b", "y")
	ticket := ctl.BeginRefresh(true)
	page, err := ticket.Run()
	if _, err := ctl.FinishRefresh(ticket, page, err); err != nil {
		t.Fatalf("FinishRefresh: %v", err)
	}

	current, _ := ctl.Current()
	if current.ID != "b" || ctl.Snapshot().Cursor() != 1 {
		t.Fatalf("current=%s cursor=%d, want b at 1", current.ID, ctl.Snapshot().Cursor())
	}
}

func TestApproveMidQueueAdvancesImplicitly(t *testing.T) {
	// Snapshot [A,B,C], cursor=1 (B). Approve(B) succeeds: snapshot [A,C],
	// cursor=1, C now current; total down by one.
	backend := &backendStub{page: pageOf("a", "b", "c")}
	ctl := refreshedController(t, backend)
	ctl.Snapshot().Advance()

	ticket, err := ctl.BeginDecision(ActionApprove, DecisionOptions{})
	if err != nil {
		t.Fatalf("BeginDecision: %v", err)
	}
	outcome, err := ctl.FinishDecision(ticket, ticket.Run())
	if err != nil || outcome != DecisionApplied {
		t.Fatalf("FinishDecision: outcome=%v err=%v", outcome, err)
	}

	if ctl.Snapshot().Has("b") {
		t.Fatal("acted-on id still present in snapshot")
	}
	if ctl.Snapshot().Total() != 2 {
		t.Fatalf("total = %d, want 2", ctl.Snapshot().Total())
	}
	current, _ := ctl.Current()
	if ctl.Snapshot().Cursor() != 1 || current.ID != "c" {
		t.Fatalf("cursor=%d current=%s, want 1/c", ctl.Snapshot().Cursor(), current.ID)
	}
}

func TestRejectedDecisionRetainsItem(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b")}
	ctl := refreshedController(t, backend)
	backend.decisionErr = errors.New("site mismatch")

	ticket, err := ctl.BeginDecision(ActionReject, DecisionOptions{})
	if err != nil {
		t.Fatalf("BeginDecision: %v", err)
	}
	outcome, err := ctl.FinishDecision(ticket, ticket.Run())
	if outcome != DecisionFailed || !errors.Is(err, ErrDecisionRejected) {
		t.Fatalf("outcome=%v err=%v, want DecisionFailed/ErrDecisionRejected", outcome, err)
	}
	if !ctl.Snapshot().Has("a") || ctl.Snapshot().Len() != 2 {
		t.Fatal("failed decision mutated the snapshot")
	}
	if ctl.Submitting("a") {
		t.Fatal("submitting guard not released after failure")
	}
}

func TestDoubleSubmitGuard(t *testing.T) {
	backend := &backendStub{page: pageOf("a")}
	ctl := refreshedController(t, backend)

	first, err := ctl.BeginDecision(ActionApprove, DecisionOptions{})
	if err != nil {
		t.Fatalf("first BeginDecision: %v", err)
	}
	if _, err := ctl.BeginDecision(ActionApprove, DecisionOptions{}); !errors.Is(err, ErrAlreadySubmitting) {
		t.Fatalf("second BeginDecision err = %v, want ErrAlreadySubmitting", err)
	}
	if _, err := ctl.FinishDecision(first, first.Run()); err != nil {
		t.Fatalf("FinishDecision: %v", err)
	}
}

func TestCorrectRequiresValue(t *testing.T) {
	backend := &backendStub{page: pageOf("a")}
	ctl := refreshedController(t, backend)

	if _, err := ctl.BeginDecision(ActionCorrect, DecisionOptions{CorrectedVRM: "  "}); !errors.Is(err, ErrCorrectionMissing) {
		t.Fatalf("err = %v, want ErrCorrectionMissing", err)
	}
	// No network call was made.
	if len(backend.decisions) != 0 {
		t.Fatalf("decisions submitted = %v, want none", backend.decisions)
	}

	if _, err := ctl.BeginDecision(ActionCorrect, DecisionOptions{CorrectedVRM: "AB12CDE"}); err != nil {
		t.Fatalf("valid correction rejected: %v", err)
	}
}

func TestSkipIsLocal(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b")}
	ctl := refreshedController(t, backend)

	if !ctl.Skip() {
		t.Fatal("Skip returned false")
	}
	current, _ := ctl.Current()
	if current.ID != "b" {
		t.Fatalf("current = %s, want b", current.ID)
	}
	if len(backend.decisions) != 0 {
		t.Fatal("Skip issued a network call")
	}
	if ctl.Snapshot().Len() != 2 {
		t.Fatal("Skip removed an item")
	}
}

func TestBulkSuccessRemovesBatchAndClearsSelection(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b", "c", "d")}
	ctl := refreshedController(t, backend)
	ctl.Selection().Toggle("a")
	ctl.Selection().Toggle("c")

	ticket, err := ctl.BeginBulk(ActionApprove, "")
	if err != nil {
		t.Fatalf("BeginBulk: %v", err)
	}
	outcome, err := ctl.FinishBulk(ticket, ticket.Run())
	if err != nil || outcome != DecisionApplied {
		t.Fatalf("FinishBulk: outcome=%v err=%v", outcome, err)
	}

	if ctl.Snapshot().Len() != 2 || ctl.Snapshot().Total() != 2 {
		t.Fatalf("len/total = %d/%d, want 2/2", ctl.Snapshot().Len(), ctl.Snapshot().Total())
	}
	if ctl.Snapshot().Has("a") || ctl.Snapshot().Has("c") {
		t.Fatal("bulk-removed ids still present")
	}
	if ctl.Selection().Len() != 0 {
		t.Fatal("selection not cleared after bulk success")
	}
	if len(backend.bulkIDs) != 2 {
		t.Fatalf("bulk submitted %v, want 2 ids", backend.bulkIDs)
	}
}

func TestBulkFailureIsAtomicClientSide(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b", "c")}
	ctl := refreshedController(t, backend)
	ctl.Selection().SelectAll(ctl.Snapshot().Items())
	backend.bulkErr = errors.New("batch declined")

	ticket, err := ctl.BeginBulk(ActionDiscard, "duplicates")
	if err != nil {
		t.Fatalf("BeginBulk: %v", err)
	}
	outcome, err := ctl.FinishBulk(ticket, ticket.Run())
	if outcome != DecisionFailed || !errors.Is(err, ErrDecisionRejected) {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}

	// Nothing removed, selection intact, guards released.
	if ctl.Snapshot().Len() != 3 || ctl.Selection().Len() != 3 {
		t.Fatal("failed bulk mutated snapshot or selection")
	}
	if ctl.SubmittingAny() {
		t.Fatal("submitting guards not released after bulk failure")
	}
}

func TestBulkRequiresSelection(t *testing.T) {
	backend := &backendStub{page: pageOf("a")}
	ctl := refreshedController(t, backend)

	if _, err := ctl.BeginBulk(ActionApprove, ""); !errors.Is(err, ErrSelectionEmpty) {
		t.Fatalf("err = %v, want ErrSelectionEmpty", err)
	}
	if _, err := ctl.BeginBulk(ActionReject, ""); err == nil {
		t.Fatal("BeginBulk accepted an action without a bulk variant")
	}
}

func TestFilterChangeClearsSelection(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b")}
	ctl := refreshedController(t, backend)
	ctl.Selection().Toggle("a")

	if err := ctl.SetFilter(Filter{Surface: SurfaceDecisions, SiteIDs: []string{"S9"}}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if ctl.Selection().Len() != 0 {
		t.Fatal("selection survived a filter change")
	}
}

func TestCloseAbortsEverything(t *testing.T) {
	backend := &backendStub{page: pageOf("a", "b")}
	ctl := refreshedController(t, backend)

	fetch := ctl.BeginRefresh(false)
	decision, err := ctl.BeginDecision(ActionApprove, DecisionOptions{})
	if err != nil {
		t.Fatalf("BeginDecision: %v", err)
	}

	ctl.Close()

	if err := fetch.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("fetch ctx err = %v, want canceled", err)
	}
	if err := decision.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("decision ctx err = %v, want canceled", err)
	}

	// Late finishes are dropped.
	outcome, err := ctl.FinishDecision(decision, decision.Run())
	if outcome != DecisionCancelled || err != nil {
		t.Fatalf("post-close FinishDecision: outcome=%v err=%v", outcome, err)
	}
}

func TestEmptyQueueDecision(t *testing.T) {
	backend := &backendStub{page: Page{}}
	ctl := refreshedController(t, backend)

	if _, err := ctl.BeginDecision(ActionApprove, DecisionOptions{}); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("err = %v, want ErrQueueEmpty", err)
	}
	if ctl.Skip() {
		t.Fatal("Skip on empty queue returned true")
	}
}
