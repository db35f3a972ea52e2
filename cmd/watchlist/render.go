package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"watchlist/internal/api"
	"watchlist/internal/textutil"
	"watchlist/internal/watchlist"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
	ansiBlue  = "\x1b[34m"
)

// titleWidth keeps the item table readable on an 80 column terminal.
const titleWidth = 40

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderList formats a list as a heading followed by an item table.
func renderList(list watchlist.List, protected, colorize bool) string {
	var b strings.Builder
	heading := fmt.Sprintf("%s  (%s, version %d)", list.Name, pluralItems(len(list.Items)), list.Version)
	if protected {
		heading += "  [protected]"
	}
	if colorize {
		heading = ansiBlue + heading + ansiReset
	}
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("id: %s\n", list.ID))
	if len(list.Items) == 0 {
		b.WriteString("No movies yet.\n")
		return b.String()
	}

	rows := make([][]string, 0, len(list.Items))
	for i, item := range list.Items {
		watched := " "
		if item.Watched {
			watched = "x"
			if colorize {
				watched = ansiGreen + watched + ansiReset
			}
		}
		id := item.ID
		if colorize {
			id = ansiDim + id + ansiReset
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			watched,
			clampTitle(item.Title),
			releaseYear(item.ReleaseDate),
			formatRuntime(item.RuntimeMinutes),
			formatRating(item.Rating),
			item.AddedBy,
			id,
		})
	}
	b.WriteString(renderTable(
		[]string{"#", "Seen", "Title", "Year", "Runtime", "Rating", "Added by", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	return b.String()
}

func renderSearchResults(results []api.SearchResult) string {
	if len(results) == 0 {
		return "No matches.\n"
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{strconv.FormatInt(r.ID, 10), clampTitle(r.Title), r.Year})
	}
	return renderTable([]string{"TMDB ID", "Title", "Year"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}) + "\n"
}

func clampTitle(title string) string {
	if textutil.RuneLen(title) <= titleWidth {
		return title
	}
	return textutil.Truncate(title, titleWidth-1) + "…"
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 movie"
	}
	return fmt.Sprintf("%d movies", n)
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func formatRating(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", watchlist.MaxRating-rating)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
