// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/biblioscope/pkg/types"
)

// Format names an output rendering of a ResultSet.
type Format string

const (
	TextFormat  Format = "text"
	JSONFormat  Format = "json"
	TableFormat Format = "table"
	CSLFormat   Format = "csl"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return TextFormat, nil
	case TextFormat, JSONFormat, TableFormat, CSLFormat:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, table or csl)", s)
	}
}

// Write renders set to w in format f.
func Write(f Format, set types.ResultSet, w io.Writer) error {
	switch f {
	case JSONFormat:
		return FormatJSON(set, w)
	case TableFormat:
		FormatTable(set, w)
		return nil
	case CSLFormat:
		return FormatCSL(set, w)
	default:
		FormatText(set, w)
		return nil
	}
}

// FormatText writes the result banner and one block per record.
func FormatText(set types.ResultSet, w io.Writer) {
	fmt.Fprintf(w, "\nFound %s total results\n\n", set.TotalCount)
	if set.Empty() {
		fmt.Fprintln(w, "No articles to display")
		return
	}
	for i, r := range set.Records {
		fmt.Fprintf(w, "[%d] %s\n", i+1, r.Title)
		fmt.Fprintf(w, "    Author: %s\n", r.Author)
		fmt.Fprintf(w, "    Journal: %s (%s)\n", r.Journal, r.Year)
		fmt.Fprintf(w, "    DOI: %s\n", r.DOI)
		fmt.Fprintln(w)
	}
}

// FormatJSON writes the set as indented JSON.
func FormatJSON(set types.ResultSet, w io.Writer) error {
	if set.Records == nil {
		set.Records = []types.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// FormatTable writes the set as a table, truncating long titles.
func FormatTable(set types.ResultSet, w io.Writer) {
	if set.Empty() {
		fmt.Fprintf(w, "Found %s total results\nNo articles to display\n", set.TotalCount)
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Title", "Author", "Journal", "Year", "DOI"})
	for i, r := range set.Records {
		tw.AppendRow(table.Row{i + 1, truncate(r.Title, 60), truncate(r.Author, 24), truncate(r.Journal, 30), r.Year, r.DOI})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d of %s results", len(set.Records), set.TotalCount)})
	tw.Render()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
