package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"watchlist/internal/api"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search TMDB for movies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			results, err := c.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return ctx.explain(err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.SearchResponse{Results: results})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSearchResults(results))
			return nil
		},
	}
}
