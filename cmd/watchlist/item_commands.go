package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"watchlist/internal/syncagent"
	"watchlist/internal/watchlist"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		addedBy     string
		releaseDate string
		poster      string
		runtime     int
		rating      int
		movieID     int64
	)
	cmd := &cobra.Command{
		Use:   "add <list-id> <title>",
		Short: "Add a movie to a watchlist",
		Long: "Add a movie to a watchlist.\n\n" +
			"With --movie the runtime and release date are looked up in TMDB after the add.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addedBy == "" {
				addedBy = ctx.author()
			}
			item := watchlist.Item{
				Title:          strings.Join(args[1:], " "),
				AddedBy:        addedBy,
				ReleaseDate:    releaseDate,
				Poster:         poster,
				RuntimeMinutes: runtime,
				Rating:         rating,
			}
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				added, err := agent.Add(cmd.Context(), item)
				if err != nil {
					return ctx.explain(err)
				}
				if movieID > 0 {
					lookup := agent.BeginLookup(cmd.Context())
					if err := agent.Enrich(lookup, added.ID, movieID); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: movie details unavailable: %v\n", ctx.explain(err))
					}
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
	cmd.Flags().StringVar(&addedBy, "by", "", "Who added the movie (defaults to client.author)")
	cmd.Flags().StringVar(&releaseDate, "release-date", "", "Release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&poster, "poster", "", "Poster image URL")
	cmd.Flags().IntVar(&runtime, "runtime", 0, "Runtime in minutes")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 0 to 5; 0 leaves it unrated")
	cmd.Flags().Int64Var(&movieID, "movie", 0, "TMDB movie id used to fill in runtime and release date")
	return cmd
}

func newToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <list-id> <item>",
		Short: "Flip the watched flag of a movie (by id or row number)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				itemID, err := resolveItem(agent, args[1])
				if err != nil {
					return err
				}
				if err := agent.Toggle(cmd.Context(), itemID); err != nil {
					return ctx.explain(err)
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <list-id> <item> <0-5>",
		Short: "Rate a movie; 0 clears the rating",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[2])
			if err != nil || rating < 0 || rating > watchlist.MaxRating {
				return fmt.Errorf("rating must be a whole number from 0 to %d", watchlist.MaxRating)
			}
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				itemID, err := resolveItem(agent, args[1])
				if err != nil {
					return err
				}
				if err := agent.Update(cmd.Context(), itemID, watchlist.Patch{Rating: &rating}); err != nil {
					return ctx.explain(err)
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <list-id> <item>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie (by id or row number)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				itemID, err := resolveItem(agent, args[1])
				if err != nil {
					return err
				}
				if err := agent.Remove(cmd.Context(), itemID); err != nil {
					return ctx.explain(err)
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
}

// resolveItem accepts an item id or a 1-based row number as shown by
// `watchlist show`. Ids win over row numbers.
func resolveItem(agent *syncagent.Agent, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("item id or row number is required")
	}
	list, _ := agent.Snapshot()
	if list.Has(ref) {
		return ref, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list.Items) {
			return "", fmt.Errorf("row %d out of range (list has %d movies)", n, len(list.Items))
		}
		return list.Items[n-1].ID, nil
	}
	return "", fmt.Errorf("no movie with id %q on this list", ref)
}
