package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biblioscope/internal/config"
	"github.com/pdiddy/biblioscope/internal/history"
	"github.com/pdiddy/biblioscope/internal/logger"
	"github.com/pdiddy/biblioscope/internal/search"
	"github.com/pdiddy/biblioscope/pkg/types"
)

func init() {
	f := rootCmd.Flags()
	f.IntP("count", "c", config.DefaultCount, "number of results to return (max 200)")
	f.Bool("doi", false, "search by DOI (accepts https://doi.org/ URLs and doi: prefixes)")
	f.Bool("title", false, "search by title")
	f.Bool("author", false, "search by author name")
	f.StringP("format", "f", string(search.TextFormat), "output format: text, json, table or csl")
	f.String("save", "", "also save the query and results to this YAML file")
	f.Duration("timeout", search.DefaultTimeout, "total request timeout")
	f.Bool("no-history", false, "do not record this search in the history database")

	_ = v.BindPFlag(config.KeyCount, f.Lookup("count"))
	_ = v.BindPFlag(config.KeyTimeout, f.Lookup("timeout"))
}

// searchOptions is what the flags resolve to for one search.
type searchOptions struct {
	Request   search.Request
	Format    search.Format
	SavePath  string
	NoHistory bool
}

func runRoot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	format, _ := cmd.Flags().GetString("format")
	outFormat, err := search.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(v, loadedSecrets)
	if err != nil {
		return err
	}

	doi, _ := cmd.Flags().GetBool("doi")
	title, _ := cmd.Flags().GetBool("title")
	author, _ := cmd.Flags().GetBool("author")
	savePath, _ := cmd.Flags().GetString("save")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	opts := searchOptions{
		Request:   search.NewRequest(args[0], search.ResolveMode(doi, title, author), cfg.DefaultCount),
		Format:    outFormat,
		SavePath:  savePath,
		NoHistory: noHistory,
	}
	return runSearch(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runSearch performs one search and prints it. A failed request is reported
// on stderr and is not an error: the invocation still completes.
// Status lines share stdout with text output and move to stderr for
// machine-readable formats.
func runSearch(ctx context.Context, cfg types.Config, opts searchOptions, stdout, stderr io.Writer) error {
	req := opts.Request
	expr := req.Expression()

	status := stderr
	if opts.Format == "" || opts.Format == search.TextFormat {
		status = stdout
	}

	fmt.Fprintf(status, "Searching for: %s\n", req.Query)
	fmt.Fprintf(status, "Requesting %d results...\n", req.Count)
	if expr != req.Query {
		logger.For(ctx).Debugf("Scopus expression: %s", expr)
	}

	client := search.NewClient(cfg.Client)
	raw, err := client.Search(ctx, expr, req.Count)
	if err != nil {
		var ne *search.NetworkError
		if !errors.As(err, &ne) {
			return err
		}
		fmt.Fprintf(stderr, "Error searching Scopus: %v\n", ne.Err)
		recordHistory(ctx, cfg, opts, types.ResultSet{TotalCount: "0"}, ne.Err)
		return nil
	}

	set := search.Normalize(raw)
	recordHistory(ctx, cfg, opts, set, nil)

	if opts.SavePath != "" {
		if err := search.WriteQueryFile(opts.SavePath, req, set); err != nil {
			logger.For(ctx).Warnf("could not save query file: %v", err)
		} else {
			fmt.Fprintf(status, "Saved query to %s\n", opts.SavePath)
		}
	}

	return search.Write(opts.Format, set, stdout)
}

// recordHistory logs the search. Failures are warnings only.
func recordHistory(ctx context.Context, cfg types.Config, opts searchOptions, set types.ResultSet, searchErr error) {
	if opts.NoHistory || cfg.HistoryPath == "" {
		return
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.For(ctx).Warnf("history disabled: %v", err)
		return
	}
	defer store.Close()

	e := history.Entry{
		Query:      opts.Request.Query,
		Mode:       opts.Request.Mode.String(),
		Expression: opts.Request.Expression(),
		Count:      opts.Request.Count,
		Total:      set.TotalCount,
		Returned:   len(set.Records),
	}
	if searchErr != nil {
		e.Error = searchErr.Error()
	}
	if _, err := store.Record(ctx, e); err != nil {
		logger.For(ctx).Warnf("could not record search: %v", err)
	}
}
