package main

import (
	"testing"

	"plateview/internal/config"
	"plateview/internal/review"
)

func TestFilterFlagsUseConfigDefaults(t *testing.T) {
	defaults := config.Review{
		Surface: "decisions",
		SiteIDs: []string{"car-park-7", "car-park-2"},
	}

	var flags filterFlags
	filter, err := flags.build(defaults)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if filter.Surface != review.SurfaceDecisions {
		t.Fatalf("expected decisions surface, got %q", filter.Surface)
	}
	if len(filter.SiteIDs) != 2 || filter.SiteIDs[0] != "car-park-2" {
		t.Fatalf("expected normalized config sites, got %v", filter.SiteIDs)
	}
}

func TestFilterFlagsOverrideDefaults(t *testing.T) {
	defaults := config.Review{Surface: "decisions", SiteIDs: []string{"car-park-7"}}

	flags := filterFlags{
		surface: "plates",
		sites:   []string{"car-park-9"},
		from:    "2026-04-01",
		to:      "2026-04-30",
	}
	filter, err := flags.build(defaults)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if filter.Surface != review.SurfacePlates {
		t.Fatalf("surface flag should win, got %q", filter.Surface)
	}
	if len(filter.SiteIDs) != 1 || filter.SiteIDs[0] != "car-park-9" {
		t.Fatalf("site flag should win, got %v", filter.SiteIDs)
	}
	if filter.DateFrom.IsZero() || filter.DateTo.IsZero() {
		t.Fatal("dates should parse")
	}
}

func TestFilterFlagsRejectBadInput(t *testing.T) {
	defaults := config.Review{Surface: "decisions"}

	if _, err := (&filterFlags{surface: "tickets"}).build(defaults); err == nil {
		t.Fatal("unknown surface should be rejected")
	}
	if _, err := (&filterFlags{from: "April 1st"}).build(defaults); err == nil {
		t.Fatal("malformed date should be rejected")
	}
	if _, err := (&filterFlags{from: "2026-05-01", to: "2026-04-01"}).build(defaults); err == nil {
		t.Fatal("inverted date range should be rejected")
	}
}
