package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/retrieval"
)

func newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Find the corpus articles closest to a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topK, _ := cmd.Flags().GetInt("top-k")
			query := strings.Join(args, " ")

			return withApp(cmd, nil, func(ctx context.Context, app *bootstrap.App) error {
				ix, err := app.Index(ctx)
				if err != nil {
					return err
				}
				results, err := ix.Search(ctx, query, topK)
				if err != nil {
					return err
				}
				return printSearchResults(cmd, results)
			})
		},
	}
	c.Flags().IntP("top-k", "k", retrieval.DefaultTopK, "number of articles to return")
	return c
}

func printSearchResults(cmd *cobra.Command, results []retrieval.Result) error {
	if outputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), results)
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			r.Article.Code,
			r.Article.Article,
			r.Article.Excerpt(80),
		})
	}
	return printTable(cmd.OutOrStdout(), []string{"SCORE", "CODE", "ARTICLE", "TEXT"}, rows)
}
