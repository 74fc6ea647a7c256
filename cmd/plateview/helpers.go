package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"plateview/internal/config"
	"plateview/internal/review"
)

const dateFormat = "2006-01-02"

// filterFlags are the queue scoping flags shared by `review` and `queue`.
type filterFlags struct {
	surface    string
	sites      []string
	from       string
	to         string
	status     string
	validation string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.surface, "surface", "", "Queue surface: decisions or plates (default from config)")
	cmd.Flags().StringSliceVar(&f.sites, "site", nil, "Restrict to site id (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "Only items observed on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Only items observed on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by item status")
	cmd.Flags().StringVar(&f.validation, "validation", "", "Filter by validation state")
}

// build merges flag values over the configured defaults.
func (f *filterFlags) build(defaults config.Review) (review.Filter, error) {
	surfaceValue := strings.TrimSpace(f.surface)
	if surfaceValue == "" {
		surfaceValue = defaults.Surface
	}
	surface, err := review.ParseSurface(surfaceValue)
	if err != nil {
		return review.Filter{}, err
	}

	sites := f.sites
	if len(sites) == 0 {
		sites = defaults.SiteIDs
	}

	filter := review.Filter{
		Surface:    surface,
		SiteIDs:    sites,
		Status:     f.status,
		Validation: f.validation,
	}
	if filter.DateFrom, err = parseDate(f.from); err != nil {
		return review.Filter{}, err
	}
	if filter.DateTo, err = parseDate(f.to); err != nil {
		return review.Filter{}, err
	}
	filter = filter.Normalized()
	if err := filter.Validate(); err != nil {
		return review.Filter{}, err
	}
	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return parsed, nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
