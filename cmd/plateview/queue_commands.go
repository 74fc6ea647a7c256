package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"plateview/internal/review"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the review queue without opening the console",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatsCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter, err := flags.build(cfg.Review)
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			pageLimit := limit
			if pageLimit <= 0 {
				pageLimit = cfg.API.PageSize
			}
			page, err := client.ListQueue(cmd.Context(), filter, pageLimit)
			if err != nil {
				return fmt.Errorf("list queue: %w", err)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, queueListPayload(filter, page))
			}

			rows := make([][]string, 0, len(page.Items))
			for _, item := range page.Items {
				label := item.Reason
				if item.Kind == review.KindPlate {
					label = fmt.Sprintf("%.0f%% read", item.Confidence*100)
				}
				rows = append(rows, []string{
					item.ID,
					item.DisplayVRM(),
					item.SiteID,
					formatTime(item.ObservedAt),
					item.Status,
					label,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Plate", "Site", "Observed", "Status", "Reason"}, rows))
			fmt.Fprintf(out, "%d of %d queued items shown\n", len(page.Items), page.Total)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum items to fetch (default from config)")
	return cmd
}

func newQueueStatsCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize queued items by site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter, err := flags.build(cfg.Review)
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			page, err := client.ListQueue(cmd.Context(), filter, maxStatsSample)
			if err != nil {
				return fmt.Errorf("list queue: %w", err)
			}

			counts := make(map[string]int)
			for _, item := range page.Items {
				counts[item.SiteID]++
			}
			sites := make([]string, 0, len(counts))
			for site := range counts {
				sites = append(sites, site)
			}
			sort.Strings(sites)

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"surface": string(filter.Surface),
					"total":   page.Total,
					"sampled": len(page.Items),
					"bySite":  counts,
				})
			}

			rows := make([][]string, 0, len(sites))
			for _, site := range sites {
				rows = append(rows, []string{site, fmt.Sprintf("%d", counts[site])})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Site", "Queued"}, rows, 1))
			fmt.Fprintf(out, "%d total on the %s surface (%d sampled)\n",
				page.Total, filter.Surface, len(page.Items))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// maxStatsSample bounds the stats sample to one large page.
const maxStatsSample = 200

func queueListPayload(filter review.Filter, page review.Page) map[string]any {
	items := make([]map[string]any, 0, len(page.Items))
	for _, item := range page.Items {
		entry := map[string]any{
			"id":       item.ID,
			"kind":     string(item.Kind),
			"vrm":      item.DisplayVRM(),
			"siteId":   item.SiteID,
			"status":   item.Status,
			"reason":   item.Reason,
			"observed": formatTime(item.ObservedAt),
		}
		if item.Kind == review.KindPlate {
			entry["confidence"] = item.Confidence
		}
		items = append(items, entry)
	}
	return map[string]any{
		"surface": string(filter.Surface),
		"total":   page.Total,
		"items":   items,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
