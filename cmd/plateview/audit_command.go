package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plateview/internal/audit"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Reconstruct audit timelines outside the console",
	}

	auditCmd.AddCommand(newAuditVehicleCommand(ctx))
	auditCmd.AddCommand(newAuditSessionCommand(ctx))
	auditCmd.AddCommand(newAuditDecisionCommand(ctx))

	return auditCmd
}

func newAuditVehicleCommand(ctx *commandContext) *cobra.Command {
	var site string
	var from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "vehicle <vrm>",
		Short: "Audit entries for a vehicle registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			vrm := audit.NormalizeVRM(args[0])
			fromTime, err := parseDate(from)
			if err != nil {
				return err
			}
			toTime, err := parseDate(to)
			if err != nil {
				return err
			}
			entryLimit := limit
			if entryLimit <= 0 {
				entryLimit = cfg.Review.AuditEntryLimit
			}

			entries, err := client.VehicleAudit(cmd.Context(), vrm, site, fromTime, toTime, entryLimit)
			if err != nil {
				return fmt.Errorf("vehicle audit: %w", err)
			}
			return printTimeline(cmd, ctx, audit.Merge(entries))
		},
	}

	cmd.Flags().StringVar(&site, "site", "", "Restrict to one site id")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries (default from config)")
	return cmd
}

func newAuditSessionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "session <id>",
		Short: "Audit entries for a parking session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			entries, err := client.SessionAudit(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("session audit: %w", err)
			}
			return printTimeline(cmd, ctx, audit.Merge(entries))
		},
	}
}

func newAuditDecisionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decision <id>",
		Short: "Audit entries for an enforcement decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			entries, err := client.DecisionAudit(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("decision audit: %w", err)
			}
			return printTimeline(cmd, ctx, audit.Merge(entries))
		},
	}
}

func printTimeline(cmd *cobra.Command, ctx *commandContext, entries []audit.Entry) error {
	if ctx.jsonOutput() {
		payload := make([]map[string]any, 0, len(entries))
		for _, entry := range entries {
			payload = append(payload, map[string]any{
				"id":        entry.ID,
				"timestamp": entry.Timestamp.Format(time.RFC3339),
				"stream":    string(entry.Stream),
				"action":    entry.Action,
				"actor":     entry.Actor,
			})
		}
		return writeJSON(cmd, payload)
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			formatTime(entry.Timestamp),
			string(entry.Stream),
			entry.Action,
			entry.Actor,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Timestamp", "Stream", "Action", "Actor"}, rows))
	fmt.Fprintf(out, "%d entries\n", len(entries))
	return nil
}
