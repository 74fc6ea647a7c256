package audit

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stream identifies which audit source produced an entry.
type Stream string

const (
	StreamVehicle  Stream = "vehicle"
	StreamSession  Stream = "session"
	StreamDecision Stream = "decision"
)

// Entry is a single audit log record from any stream. Entries sharing an ID
// across streams describe the same underlying event.
type Entry struct {
	ID        string
	Timestamp time.Time
	Action    string
	Actor     string
	Stream    Stream
	Details   json.RawMessage
}

// Key carries the correlation identifiers available for a review item.
// Zero-value fields mean the corresponding source is skipped.
type Key struct {
	VRM        string
	SiteID     string
	EntryTime  time.Time
	ExitTime   time.Time
	SessionID  string
	DecisionID string
}

var vrmCaser = cases.Upper(language.English)

// NormalizeVRM canonicalizes a plate mark for correlation and display:
// trimmed, uppercased, interior whitespace removed.
func NormalizeVRM(vrm string) string {
	upper := vrmCaser.String(strings.TrimSpace(vrm))
	return strings.ReplaceAll(upper, " ", "")
}

// unknownVRM is the sentinel the capture pipeline emits when a plate could
// not be read at all. There is nothing to correlate on.
const unknownVRM = "UNKNOWN"

// Correlatable reports whether the key identifies a vehicle worth querying.
func (k Key) Correlatable() bool {
	vrm := NormalizeVRM(k.VRM)
	return vrm != "" && vrm != unknownVRM
}

// Merge concatenates entry batches, sorts them descending by timestamp, and
// drops duplicate ids keeping the first occurrence in sort order.
func Merge(batches ...[]Entry) []Entry {
	var merged []Entry
	for _, batch := range batches {
		merged = append(merged, batch...)
	}
	sortEntries(merged)
	seen := make(map[string]struct{}, len(merged))
	out := merged[:0]
	for _, entry := range merged {
		if entry.ID != "" {
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}
		}
		out = append(out, entry)
	}
	return out
}

func sortEntries(entries []Entry) {
	// Stable so that equal timestamps keep source order, which makes the
	// first-seen dedupe rule deterministic.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
