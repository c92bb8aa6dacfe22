package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/4thel00z/recall/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd(searchUC *internal.SearchUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed chunks",
		Long:  `Rank indexed chunks by similarity to the query without generating an answer.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  makeSearchRunner(searchUC),
	}

	cmd.Flags().IntP("number", "n", 0, "Number of results")
	return cmd
}

func makeSearchRunner(searchUC *internal.SearchUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		topK, _ := cmd.Flags().GetInt("number")

		out, err := searchUC.Execute(cmd.Context(), internal.SearchInput{
			Query: strings.Join(args, " "),
			TopK:  topK,
			Scope: scopeHint,
		})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		if asJSON {
			results := make([]map[string]any, 0, len(out.Results))
			for _, r := range out.Results {
				results = append(results, map[string]any{
					"id":    r.ID,
					"score": r.Score,
					"text":  r.Text,
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(out.Results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results.")
			return nil
		}

		for _, r := range out.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%.4f)\n", r.ID, r.Score)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", firstLine(r.Text))
		}
		return nil
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
