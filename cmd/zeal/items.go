package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/zeal/internal/domain"
)

func saveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <item-id>...",
		Short: "Schedule items for review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := a.deck.Save(id); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d item(s).\n", len(args))
			return nil
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>...",
		Short: "Stop scheduling items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := a.deck.Remove(id); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s).\n", len(args))
			return nil
		},
	}
}

func dueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRecords(cmd, a.deck.Due())
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every saved item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRecords(cmd, a.deck.List())
			return nil
		},
	}
}

func reviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review <item-id> <quality>",
		Short: "Record a review (quality: 1 again, 3 hard, 4 good, 5 easy)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quality %q: %w", args[1], err)
			}

			rec, ok, err := a.deck.Review(args[0], domain.Quality(q))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not saved; nothing to review.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: next review %s (interval %dd, ease %.2f, streak %d)\n",
				rec.ItemID, rec.NextReviewTime().Format(time.DateTime), rec.Interval, rec.EaseFactor, rec.Repetitions)
			return nil
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show deck totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.deck.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nDue: %d\nMastered: %d\n", s.TotalCards, s.DueCards, s.MasteredCards)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write all records as a JSON array to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs := a.deck.List()
			if recs == nil {
				recs = []domain.ReviewRecord{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
}

func printRecords(cmd *cobra.Command, recs []domain.ReviewRecord) {
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No items.")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s\tnext %s\tinterval %dd\tease %.2f\tstreak %d\n",
			r.ItemID, r.NextReviewTime().Format(time.DateTime), r.Interval, r.EaseFactor, r.Repetitions)
	}
}
