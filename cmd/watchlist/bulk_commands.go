package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"watchlist/internal/api"
	"watchlist/internal/services"
	"watchlist/internal/syncagent"
	"watchlist/internal/textutil"
	"watchlist/internal/watchlist"
)

type importResult struct {
	Added      []string `json:"added"`
	Duplicates []string `json:"duplicates"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var addedBy string
	cmd := &cobra.Command{
		Use:   "import <list-id> [file]",
		Short: "Add titles from a file, one per line",
		Long: "Add titles from a file (or stdin), one per line.\n\n" +
			"Blank lines and lines starting with # are ignored. Titles already on\n" +
			"the list are reported and skipped. The first line ends up on top.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				file, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			titles, err := readTitles(in)
			if err != nil {
				return err
			}
			titles, repeated := splitRepeats(titles)
			if len(titles) == 0 {
				return errors.New("no titles to import")
			}

			c, err := ctx.newClient()
			if err != nil {
				return err
			}
			if addedBy == "" {
				addedBy = ctx.author()
			}

			// Adds go to the front of the list, so walk the file backwards.
			result := importResult{Added: []string{}, Duplicates: []string{}}
			for _, title := range slices.Backward(titles) {
				_, err := c.AddItem(cmd.Context(), args[0], api.AddItemRequest{Title: title, AddedBy: addedBy})
				switch {
				case err == nil:
					result.Added = append(result.Added, title)
				case errors.Is(err, services.ErrConflict):
					result.Duplicates = append(result.Duplicates, title)
				default:
					return fmt.Errorf("import %q: %w", title, ctx.explain(err))
				}
			}
			slices.Reverse(result.Added)
			slices.Reverse(result.Duplicates)
			result.Duplicates = append(result.Duplicates, repeated...)

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s\n", pluralItems(len(result.Added)))
			for _, title := range result.Duplicates {
				fmt.Fprintf(out, "Skipped %q: already on the list\n", title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addedBy, "by", "", "Who added the movies (defaults to client.author)")
	return cmd
}

func readTitles(r io.Reader) ([]string, error) {
	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	return titles, nil
}

// splitRepeats keeps the first occurrence of each title so the file order,
// not the reversed add order, decides which spelling is stored.
func splitRepeats(titles []string) (unique, repeated []string) {
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		key := textutil.NormalizeTitle(title)
		if seen[key] {
			repeated = append(repeated, title)
			continue
		}
		seen[key] = true
		unique = append(unique, title)
	}
	return unique, repeated
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune <list-id>",
		Short: "Drop every watched movie",
		Long: "Drop every watched movie in a single write.\n\n" +
			"The list is replaced wholesale, so a movie someone else adds while\n" +
			"prune runs can be lost. Use remove for one movie at a time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAgent(cmd.Context(), args[0], nil, func(agent *syncagent.Agent) error {
				list, _ := agent.Snapshot()
				keep := make([]watchlist.Item, 0, len(list.Items))
				for _, item := range list.Items {
					if !item.Watched {
						keep = append(keep, item)
					}
				}
				dropped := len(list.Items) - len(keep)
				if dropped > 0 {
					if err := agent.ReplaceAll(cmd.Context(), keep); err != nil {
						return ctx.explain(err)
					}
				}
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralItems(dropped))
				}
				return printAgent(cmd, ctx, agent)
			})
		},
	}
}
