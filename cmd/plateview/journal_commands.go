package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plateview/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local decision journal",
	}

	journalCmd.AddCommand(newJournalListCommand(ctx))
	journalCmd.AddCommand(newJournalPruneCommand(ctx))

	return journalCmd
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", cfg.Paths.JournalPath, err)
	}
	defer store.Close()
	return fn(store)
}

func newJournalListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent journaled decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				entries, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("read journal: %w", err)
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, entries)
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					plate := entry.VRM
					if entry.CorrectedVRM != "" {
						plate = fmt.Sprintf("%s → %s", entry.VRM, entry.CorrectedVRM)
					}
					rows = append(rows, []string{
						formatTime(entry.CreatedAt),
						entry.Action,
						plate,
						entry.ItemID,
						string(entry.Outcome),
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"When", "Action", "Plate", "Item", "Outcome"}, rows))
				fmt.Fprintf(out, "%d journaled decisions\n", len(entries))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	return cmd
}

func newJournalPruneCommand(ctx *commandContext) *cobra.Command {
	var keepDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete journal entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keepDays <= 0 {
				return fmt.Errorf("--keep-days must be positive, got %d", keepDays)
			}
			return ctx.withJournal(func(store *journal.Store) error {
				removed, err := store.Prune(cmd.Context(), time.Duration(keepDays)*24*time.Hour)
				if err != nil {
					return fmt.Errorf("prune journal: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %d days\n", removed, keepDays)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keepDays, "keep-days", 90, "Retention window in days")
	return cmd
}
