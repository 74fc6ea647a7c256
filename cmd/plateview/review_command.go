package main

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"plateview/internal/audit"
	"plateview/internal/journal"
	"plateview/internal/logging"
	"plateview/internal/review"
	"plateview/internal/tui"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Open the interactive review surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !stdoutIsTerminal() {
				return errors.New("review needs a terminal; use `plateview queue list` for scripted access")
			}

			filter, err := flags.build(cfg.Review)
			if err != nil {
				return err
			}

			// One operator per console lock. Decisions from two sessions
			// would race each other's snapshots.
			lock := flock.New(cfg.Paths.LockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire console lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another plateview session holds %s", cfg.Paths.LockPath)
			}
			defer lock.Unlock()

			logger, logCloser, err := logging.NewFromConfig(cfg, true)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			defer logCloser.Close()

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				logger.Warn("decision journal unavailable", "path", cfg.Paths.JournalPath, "error", err)
				store = nil
			} else {
				defer store.Close()
			}

			ctl := review.NewController(client, filter,
				review.WithLogger(logger),
				review.WithPageSize(cfg.API.PageSize))
			rec := audit.NewReconstructor(client,
				audit.WithLogger(logger),
				audit.WithWindowMargin(time.Duration(cfg.Review.AuditWindowMarginMins)*time.Minute),
				audit.WithEntryLimit(cfg.Review.AuditEntryLimit))

			model := tui.New(tui.Params{
				Controller:       ctl,
				Reconstructor:    rec,
				Journal:          store,
				Logger:           logger,
				PollInterval:     time.Duration(cfg.Review.PollIntervalSeconds) * time.Second,
				IdlePollInterval: time.Duration(cfg.Review.IdlePollIntervalSeconds) * time.Second,
			})

			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
