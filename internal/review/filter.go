package review

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Surface selects which review queue the controller is scoped to.
type Surface string

const (
	SurfaceDecisions Surface = "decisions"
	SurfacePlates    Surface = "plates"
)

// ParseSurface validates a surface name.
func ParseSurface(value string) (Surface, error) {
	switch Surface(strings.ToLower(strings.TrimSpace(value))) {
	case SurfaceDecisions:
		return SurfaceDecisions, nil
	case SurfacePlates:
		return SurfacePlates, nil
	default:
		return "", errors.New("surface must be \"decisions\" or \"plates\"")
	}
}

// Filter is the immutable predicate the queue is scoped to. A changed filter
// always triggers a re-fetch and snapshot replacement, never an in-place
// patch. Empty SiteIDs means all sites; zero dates mean unbounded.
type Filter struct {
	Surface    Surface
	SiteIDs    []string
	DateFrom   time.Time
	DateTo     time.Time
	Status     string
	Validation string
}

// Normalized returns a canonical copy: site ids trimmed, deduplicated, and
// sorted so value comparison is stable.
func (f Filter) Normalized() Filter {
	out := f
	out.Status = strings.TrimSpace(f.Status)
	out.Validation = strings.TrimSpace(f.Validation)
	if len(f.SiteIDs) > 0 {
		seen := make(map[string]struct{}, len(f.SiteIDs))
		sites := make([]string, 0, len(f.SiteIDs))
		for _, site := range f.SiteIDs {
			site = strings.TrimSpace(site)
			if site == "" {
				continue
			}
			if _, dup := seen[site]; dup {
				continue
			}
			seen[site] = struct{}{}
			sites = append(sites, site)
		}
		sort.Strings(sites)
		out.SiteIDs = sites
	} else {
		out.SiteIDs = nil
	}
	return out
}

// Validate checks the date range ordering.
func (f Filter) Validate() error {
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateFrom.After(f.DateTo) {
		return errors.New("filter date_from is after date_to")
	}
	return nil
}

// Equal compares two normalized filters.
func (f Filter) Equal(other Filter) bool {
	if f.Surface != other.Surface || f.Status != other.Status || f.Validation != other.Validation {
		return false
	}
	if !f.DateFrom.Equal(other.DateFrom) || !f.DateTo.Equal(other.DateTo) {
		return false
	}
	if len(f.SiteIDs) != len(other.SiteIDs) {
		return false
	}
	for i, site := range f.SiteIDs {
		if other.SiteIDs[i] != site {
			return false
		}
	}
	return true
}
