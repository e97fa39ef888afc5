package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/zeal/internal/catalog"
	"github.com/conorfennell/zeal/internal/config"
)

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path|git-url>",
		Short: "Save every item found in a markdown directory or git repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := catalog.Resolve(args[0], a.cfg.ReposDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, err := catalog.LoadDir(dir)
			if err != nil {
				return err
			}

			var added int
			for _, item := range res.Items {
				if a.deck.IsSaved(item.ID) {
					continue
				}
				if err := a.deck.Save(item.ID); err != nil {
					return err
				}
				added++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d items, %d new, %d errors.\n", len(res.Items), added, len(res.Errors))
			if len(res.Errors) > 0 {
				fmt.Fprintln(out, "\nErrors:")
				for _, e := range res.Errors {
					fmt.Fprintf(out, "- %s\n", e)
				}
			}
			a.logger.Info("Import complete", "source", args[0], "items", len(res.Items), "added", added, "errors", len(res.Errors))
			return nil
		},
	}
	cmd.Flags().String("repos-dir", config.Default().ReposDir, "directory for git checkouts")
	return cmd
}
