package audit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type sourcesStub struct {
	calls    atomic.Int64
	vehicle  []Entry
	session  []Entry
	decision []Entry

	vehicleErr  error
	sessionErr  error
	decisionErr error

	gotFrom, gotTo time.Time
	gotVRM         string
	gotLimit       int
}

func (s *sourcesStub) VehicleAudit(_ context.Context, vrm, _ string, from, to time.Time, limit int) ([]Entry, error) {
	s.calls.Add(1)
	s.gotVRM = vrm
	s.gotFrom = from
	s.gotTo = to
	s.gotLimit = limit
	return s.vehicle, s.vehicleErr
}

func (s *sourcesStub) SessionAudit(context.Context, string) ([]Entry, error) {
	s.calls.Add(1)
	return s.session, s.sessionErr
}

func (s *sourcesStub) DecisionAudit(context.Context, string) ([]Entry, error) {
	s.calls.Add(1)
	return s.decision, s.decisionErr
}

func at(minutes int) time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func TestMergeSortsDescendingAndDeduplicates(t *testing.T) {
	a := []Entry{
		{ID: "e1", Timestamp: at(1), Stream: StreamVehicle},
		{ID: "e3", Timestamp: at(3), Stream: StreamVehicle},
	}
	b := []Entry{
		{ID: "e2", Timestamp: at(2), Stream: StreamSession},
		{ID: "e3", Timestamp: at(3), Stream: StreamSession},
	}
	c := []Entry{
		{ID: "e4", Timestamp: at(4), Stream: StreamDecision},
		{ID: "e1", Timestamp: at(1), Stream: StreamDecision},
	}

	merged := Merge(a, b, c)
	if len(merged) != 4 {
		t.Fatalf("len(merged) = %d, want 4", len(merged))
	}
	wantOrder := []string{"e4", "e3", "e2", "e1"}
	for i, id := range wantOrder {
		if merged[i].ID != id {
			t.Fatalf("merged[%d].ID = %s, want %s", i, merged[i].ID, id)
		}
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Timestamp.After(merged[i-1].Timestamp) {
			t.Fatalf("merged not descending at index %d", i)
		}
	}
	// First occurrence in sort order wins; e3 appears first from the vehicle
	// batch because batches merge in argument order.
	if merged[1].Stream != StreamVehicle {
		t.Fatalf("e3 stream = %s, want %s", merged[1].Stream, StreamVehicle)
	}
}

func TestReconstructUnknownVRMShortCircuits(t *testing.T) {
	stub := &sourcesStub{}
	rec := NewReconstructor(stub)

	for _, vrm := range []string{"UNKNOWN", "unknown", "", "  "} {
		job := rec.Begin(Key{VRM: vrm, SiteID: "S1", SessionID: "sess-1"})
		entries, err := job.Run()
		if err != nil {
			t.Fatalf("Run(%q): %v", vrm, err)
		}
		if len(entries) != 0 {
			t.Fatalf("Run(%q) returned %d entries, want 0", vrm, len(entries))
		}
	}
	if got := stub.calls.Load(); got != 0 {
		t.Fatalf("source calls = %d, want 0", got)
	}
}

func TestReconstructFansOutAndTagsStreams(t *testing.T) {
	stub := &sourcesStub{
		vehicle:  []Entry{{ID: "v1", Timestamp: at(5)}},
		session:  []Entry{{ID: "s1", Timestamp: at(6)}},
		decision: []Entry{{ID: "d1", Timestamp: at(7)}},
	}
	rec := NewReconstructor(stub)

	job := rec.Begin(Key{
		VRM:        "ab12 cde",
		SiteID:     "S1",
		SessionID:  "sess-1",
		DecisionID: "dec-1",
		EntryTime:  at(0),
		ExitTime:   at(30),
	})
	entries, err := job.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rec.Accept(job) {
		t.Fatal("Accept returned false for current job")
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Stream != StreamDecision || entries[2].Stream != StreamVehicle {
		t.Fatalf("streams not tagged: %+v", entries)
	}
	if stub.gotVRM != "AB12CDE" {
		t.Fatalf("vehicle VRM = %q, want AB12CDE", stub.gotVRM)
	}
	if want := at(0).Add(-time.Hour); !stub.gotFrom.Equal(want) {
		t.Fatalf("window from = %v, want %v", stub.gotFrom, want)
	}
	if want := at(30).Add(time.Hour); !stub.gotTo.Equal(want) {
		t.Fatalf("window to = %v, want %v", stub.gotTo, want)
	}
	if stub.gotLimit != DefaultEntryLimit {
		t.Fatalf("limit = %d, want %d", stub.gotLimit, DefaultEntryLimit)
	}
}

func TestReconstructToleratesSourceFailure(t *testing.T) {
	stub := &sourcesStub{
		vehicle:    []Entry{{ID: "v1", Timestamp: at(1)}},
		sessionErr: errors.New("session audit unavailable"),
	}
	rec := NewReconstructor(stub)

	job := rec.Begin(Key{VRM: "AB12CDE", SiteID: "S1", SessionID: "sess-1"})
	entries, err := job.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "v1" {
		t.Fatalf("entries = %+v, want only v1", entries)
	}
}

func TestStaleJobIsRejected(t *testing.T) {
	stub := &sourcesStub{}
	rec := NewReconstructor(stub)

	first := rec.Begin(Key{VRM: "AB12CDE", SiteID: "S1"})
	second := rec.Begin(Key{VRM: "ZZ99ZZZ", SiteID: "S1"})

	if rec.Accept(first) {
		t.Fatal("Accept accepted a superseded job")
	}
	if err := first.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("superseded job context err = %v, want canceled", err)
	}
	if !rec.Accept(second) {
		t.Fatal("Accept rejected the current job")
	}
}

func TestAcceptReleasesJobContext(t *testing.T) {
	rec := NewReconstructor(&sourcesStub{})
	job := rec.Begin(Key{VRM: "AB12CDE", SiteID: "S1"})
	if _, err := job.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !rec.Accept(job) {
		t.Fatal("current job should be accepted")
	}
	if err := job.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("accepted job ctx err = %v, want canceled", err)
	}
}

func TestCloseAbortsOutstandingJob(t *testing.T) {
	rec := NewReconstructor(&sourcesStub{})
	job := rec.Begin(Key{VRM: "AB12CDE", SiteID: "S1"})
	rec.Close()

	if err := job.ctx.Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("job context err after Close = %v, want canceled", err)
	}
	if rec.Accept(job) {
		t.Fatal("Accept accepted a job after Close")
	}
}

func TestNormalizeVRM(t *testing.T) {
	cases := []struct{ in, want string }{
		{" ab12 cde ", "AB12CDE"},
		{"AB12CDE", "AB12CDE"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeVRM(tc.in); got != tc.want {
			t.Fatalf("NormalizeVRM(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
