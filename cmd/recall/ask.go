package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/4thel00z/recall/internal"
	"github.com/spf13/cobra"
)

func NewAskCmd(askUC *internal.AskUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the index",
		Long:  `Retrieve the most relevant chunks and generate an answer grounded in them.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  makeAskRunner(askUC),
	}

	cmd.Flags().IntP("number", "k", 0, "Number of chunks to retrieve")
	return cmd
}

func makeAskRunner(askUC *internal.AskUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		topK, _ := cmd.Flags().GetInt("number")

		out, err := askUC.Execute(cmd.Context(), internal.AskInput{
			Question: strings.Join(args, " "),
			TopK:     topK,
			Scope:    scopeHint,
		})
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}

		if asJSON {
			matches := make([]map[string]any, 0, len(out.Matches))
			for _, m := range out.Matches {
				matches = append(matches, map[string]any{
					"id":    m.ID,
					"score": m.Score,
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"answer":  out.Answer,
				"matches": matches,
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), out.Answer)
		if len(out.Matches) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
			for _, m := range out.Matches {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%.4f)\n", m.ID, m.Score)
			}
		}
		return nil
	}
}
