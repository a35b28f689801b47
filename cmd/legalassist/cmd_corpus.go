package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/retrieval"
)

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the legal article corpus",
	}
	cmd.AddCommand(newCorpusInitCmd())
	cmd.AddCommand(newCorpusStatsCmd())
	return cmd
}

func newCorpusInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the starter corpus unless one already exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			written, err := retrieval.WriteSampleCorpus(cfg.Paths.CorpusPath)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sample articles to %s\n", len(retrieval.SampleArticles()), cfg.Paths.CorpusPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "corpus already present at %s\n", cfg.Paths.CorpusPath)
			return nil
		},
	}
}

type corpusStats struct {
	Path       string         `json:"path"`
	Articles   int            `json:"articles"`
	Codes      map[string]int `json:"codes"`
	Categories map[string]int `json:"categories"`
}

func newCorpusStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Load the corpus and count its articles per code and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			articles, err := retrieval.LoadCorpus(cfg.Paths.CorpusPath)
			if err != nil {
				return err
			}
			st := corpusStats{
				Path:       cfg.Paths.CorpusPath,
				Articles:   len(articles),
				Codes:      map[string]int{},
				Categories: map[string]int{},
			}
			for _, a := range articles {
				st.Codes[a.Code]++
				st.Categories[a.Category]++
			}
			if outputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), st)
			}
			rows := make([][]string, 0, len(st.Codes))
			for code, n := range st.Codes {
				rows = append(rows, []string{code, strconv.Itoa(n)})
			}
			return printTable(cmd.OutOrStdout(), []string{"CODE", "ARTICLES"}, rows)
		},
	}
}
